package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned when a tag does not name a known variant.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant identifies one implementation of the compute kernel.
type Variant string

const (
	VariantSequential   Variant = "seq"
	VariantMultiThread  Variant = "omp"
	VariantMultiProcess Variant = "mpi"
	VariantAccelerator  Variant = "hip"
)

// Reference is the variant every other variant is verified against.
const Reference = VariantSequential

// BinaryPrefix is the common prefix of the kernel binaries, followed by the variant tag.
const BinaryPrefix = "energy_storms_"

// Variants returns all known variants in display order.
func Variants() []Variant {
	return []Variant{VariantSequential, VariantMultiProcess, VariantMultiThread, VariantAccelerator}
}

// ParseVariant resolves a tag case-insensitively.
func ParseVariant(tag string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(tag)))
	switch v {
	case VariantSequential, VariantMultiThread, VariantMultiProcess, VariantAccelerator:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, tag)
}

// Tag is the short name used in result file names.
func (v Variant) Tag() string {
	return string(v)
}

// Label is the legend label.
func (v Variant) Label() string {
	return strings.ToUpper(string(v))
}

// Binary is the executable name of the variant.
func (v Variant) Binary() string {
	return BinaryPrefix + string(v)
}

// IsReference reports whether v is the sequential reference.
func (v Variant) IsReference() bool {
	return v == Reference
}

func (v Variant) String() string {
	return string(v)
}

// VariantTags lists the tags accepted on the command line.
func VariantTags() []string {
	vs := Variants()
	tags := make([]string, 0, len(vs))
	for _, v := range vs {
		tags = append(tags, v.Tag())
	}
	return tags
}
