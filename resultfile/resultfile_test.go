package resultfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/perfgo/kbench/model"
	"github.com/stretchr/testify/require"
)

func TestIDName(t *testing.T) {
	require.Equal(t, "test_01_seq.txt", ID{Ordinal: 1, Variant: model.VariantSequential}.Name())
	require.Equal(t, "test_10_hip.txt", ID{Ordinal: 10, Variant: model.VariantAccelerator}.Name())
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ID
		wantErr bool
	}{
		{name: "seq", in: "test_01_seq.txt", want: ID{Ordinal: 1, Variant: model.VariantSequential}},
		{name: "upper case tag", in: "test_07_MPI.txt", want: ID{Ordinal: 7, Variant: model.VariantMultiProcess}},
		{name: "three digits", in: "test_100_omp.txt", want: ID{Ordinal: 100, Variant: model.VariantMultiThread}},
		{name: "unknown tag", in: "test_01_cuda.txt", wantErr: true},
		{name: "no number", in: "test_xx_seq.txt", wantErr: true},
		{name: "zero", in: "test_00_seq.txt", wantErr: true},
		{name: "wrong extension", in: "test_01_seq.log", wantErr: true},
		{name: "wrong prefix", in: "run_01_seq.txt", wantErr: true},
		{name: "extra field", in: "test_01_seq_old.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, v := range model.Variants() {
		id := ID{Ordinal: 3, Variant: v}
		got, err := ParseName(id.Name())
		require.NoError(t, err)
		require.Equal(t, id, got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantResult string
		hasResult  bool
		wantTime   float64
		hasTime    bool
	}{
		{
			name:       "both",
			in:         "Result: 42.0\nTime: 1.5\n",
			wantResult: " 42.0", hasResult: true,
			wantTime: 1.5, hasTime: true,
		},
		{
			name:       "reversed order with noise",
			in:         "starting\nTime: 0.3 seconds\nsome output\nResult: 7 8 9\n",
			wantResult: " 7 8 9", hasResult: true,
			wantTime: 0.3, hasTime: true,
		},
		{
			name:       "first match wins",
			in:         "Result: a\nResult: b\nTime: 1\nTime: 2\n",
			wantResult: " a", hasResult: true,
			wantTime: 1, hasTime: true,
		},
		{
			name:     "no result",
			in:       "Time: 2e-3\n",
			wantTime: 0.002, hasTime: true,
		},
		{
			name:       "no time",
			in:         "Result: x",
			wantResult: " x", hasResult: true,
		},
		{
			name:       "indented markers are ignored",
			in:         "  Result: x\n\tTime: 1\n",
			hasResult:  false,
			hasTime:    false,
			wantResult: "",
		},
		{
			name:       "crlf",
			in:         "Result: x\r\nTime:4\r\n",
			wantResult: " x", hasResult: true,
			wantTime: 4, hasTime: true,
		},
		{
			name: "empty",
			in:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(strings.NewReader(tt.in))
			require.NoError(t, err)

			result, ok := rec.Result()
			require.Equal(t, tt.hasResult, ok)
			require.Equal(t, tt.wantResult, result)

			seconds, ok := rec.Time()
			require.Equal(t, tt.hasTime, ok)
			require.InDelta(t, tt.wantTime, seconds, 1e-12)
		})
	}
}

func TestParseMalformedTime(t *testing.T) {
	for _, in := range []string{"Time: fast\n", "Time:\n", "Result: 1\nTime: \n"} {
		_, err := Parse(strings.NewReader(in))
		require.True(t, errors.Is(err, ErrMalformedTime), "input %q", in)
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantResult string
		hasResult  bool
	}{
		{
			name:       "malformed time after result",
			in:         "Result: 42.0\nTime: n/a\n",
			wantResult: " 42.0",
			hasResult:  true,
		},
		{
			name:       "empty time before result",
			in:         "Time:\nResult: 1\n",
			wantResult: " 1",
			hasResult:  true,
		},
		{
			name: "time only",
			in:   "Time: fast\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseResult(strings.NewReader(tt.in))
			require.NoError(t, err)

			result, ok := rec.Result()
			require.Equal(t, tt.hasResult, ok)
			require.Equal(t, tt.wantResult, result)

			_, ok = rec.Time()
			require.False(t, ok)
		})
	}
}

func TestStoreReadResult(t *testing.T) {
	store := NewStore(t.TempDir())
	id := ID{Ordinal: 4, Variant: model.VariantSequential}
	require.NoError(t, os.WriteFile(store.Path(id), []byte("Result: 9\nTime: soon\n"), 0644))

	_, err := store.Read(id)
	require.True(t, errors.Is(err, ErrMalformedTime))

	rec, err := store.ReadResult(id)
	require.NoError(t, err)
	result, ok := rec.Result()
	require.True(t, ok)
	require.Equal(t, " 9", result)
}

func TestStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewStore(dir)

	id := ID{Ordinal: 2, Variant: model.VariantMultiThread}
	f, err := store.Create(id)
	require.NoError(t, err)
	_, err = f.WriteString("Result: 1\nTime: 0.5\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_01_SEQ.txt"), []byte("Time: 2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "test_03_seq.txt"), 0755))

	rec, err := store.Read(id)
	require.NoError(t, err)
	seconds, ok := rec.Time()
	require.True(t, ok)
	require.Equal(t, 0.5, seconds)

	entries, skipped, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{ID: ID{Ordinal: 1, Variant: model.VariantSequential}, Name: "test_01_SEQ.txt"},
		{ID: ID{Ordinal: 2, Variant: model.VariantMultiThread}, Name: "test_02_omp.txt"},
	}, entries)
	require.Equal(t, []string{"notes.md"}, skipped)

	rec, err = store.ReadEntry(entries[0])
	require.NoError(t, err)
	seconds, ok = rec.Time()
	require.True(t, ok)
	require.Equal(t, 2.0, seconds)

	_, err = store.Read(ID{Ordinal: 9, Variant: model.VariantSequential})
	require.True(t, errors.Is(err, os.ErrNotExist))
}
