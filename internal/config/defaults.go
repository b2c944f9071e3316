package config

// Default returns the built-in three stage pipeline used when no
// configuration file is present.
func Default() *Config {
	return &Config{
		Pipeline: Pipeline{
			Name:          "10X Genomics Data Pipeline",
			DefaultName:   "10XGenomics-Dataset",
			BaseOutputDir: "./output",
			Stages: []Stage{
				{
					Name:    "scraper",
					Command: "skills/scraper/scraper",
					Enabled: true,
				},
				{
					Name:      "validator",
					Command:   "skills/validator/validator",
					Enabled:   true,
					DependsOn: "scraper",
				},
				{
					Name:      "metadata_enricher",
					Command:   "skills/metadata_enricher/metadata_enricher",
					Enabled:   true,
					DependsOn: "validator",
				},
			},
		},
		Validation: defaultValidation(),
		Enrichment: defaultEnrichment(),
	}
}

func defaultValidation() Validation {
	return Validation{
		FileConsistency: true,
		URLVerification: true,
		MaxRetries:      3,
		Timeout:         30,
		ReportFormats:   []string{"json", "html"},
	}
}

func defaultEnrichment() Enrichment {
	return Enrichment{
		Enabled:         true,
		MaxRetries:      3,
		Timeout:         30,
		ParallelWorkers: 3,
	}
}
