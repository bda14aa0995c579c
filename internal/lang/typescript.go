package lang

func init() {
	Register(&LanguageSpec{
		Language:              TypeScript,
		FileExtensions:        []string{".ts", ".mts", ".cts"},
		ParameterWrapperTypes: []string{"required_parameter", "optional_parameter"},
	})
}
