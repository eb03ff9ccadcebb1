package model

// TestCase is one fixed combination of a size parameter and its input files.
type TestCase struct {
	// 1-based position in the suite, used to name result files
	Ordinal int `json:"ordinal" yaml:"-"`
	// Magnitude parameter passed as the first argument to the binary
	Size string `json:"size" yaml:"size"`
	// Input file names, resolved against the inputs directory
	InputFiles []string `json:"input_files" yaml:"inputs"`
}

// Args returns the binary arguments for this case, with each input file
// resolved by resolve.
func (tc TestCase) Args(resolve func(string) string) []string {
	args := make([]string, 0, len(tc.InputFiles)+1)
	args = append(args, tc.Size)
	for _, f := range tc.InputFiles {
		args = append(args, resolve(f))
	}
	return args
}
