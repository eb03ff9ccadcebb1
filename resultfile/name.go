package resultfile

// name.go is the only place that knows how result files are named on disk.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/perfgo/kbench/model"
)

const (
	namePrefix = "test"
	nameSep    = "_"
	nameExt    = ".txt"
)

// ID identifies the result file of one (test, variant) pair.
type ID struct {
	Ordinal int
	Variant model.Variant
}

// Name returns the file name for id, e.g. test_01_seq.txt.
func (id ID) Name() string {
	return fmt.Sprintf("%s%s%02d%s%s%s", namePrefix, nameSep, id.Ordinal, nameSep, id.Variant.Tag(), nameExt)
}

func (id ID) String() string {
	return fmt.Sprintf("test %d (%s)", id.Ordinal, id.Variant)
}

// ParseName recovers the ID from a result file name. The ordinal is the
// numeric field after the first separator, the variant tag the field after
// the second one, compared case-insensitively.
func ParseName(name string) (ID, error) {
	if !strings.HasSuffix(strings.ToLower(name), nameExt) {
		return ID{}, fmt.Errorf("not a result file: %q", name)
	}
	base := name[:len(name)-len(nameExt)]

	fields := strings.Split(base, nameSep)
	if len(fields) != 3 || fields[0] != namePrefix {
		return ID{}, fmt.Errorf("not a result file: %q", name)
	}

	ordinal, err := strconv.Atoi(fields[1])
	if err != nil || ordinal < 1 {
		return ID{}, fmt.Errorf("invalid test number in %q", name)
	}

	variant, err := model.ParseVariant(fields[2])
	if err != nil {
		return ID{}, fmt.Errorf("result file %q: %w", name, err)
	}

	return ID{Ordinal: ordinal, Variant: variant}, nil
}
