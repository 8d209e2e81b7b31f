package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/coursebook/internal/slug"
)

// Config represents the application configuration
type Config struct {
	Course CourseConfig `yaml:"course"`
	Output OutputConfig `yaml:"output"`
}

// CourseConfig describes the book to assemble
type CourseConfig struct {
	Title    string    `yaml:"title"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter is an ordered group of sections
type Chapter struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections,omitempty"`
}

// Section renders as one markdown file named after its title's slug
type Section struct {
	Title       string       `yaml:"title"`
	Subsections []Subsection `yaml:"subsections,omitempty"`
}

// Subsection is a single exercise backed by a markdown source file
type Subsection struct {
	Title       string `yaml:"title"`
	Content     string `yaml:"content"`                // markdown source file, relative to the config file
	ExerciseDir string `yaml:"exercise_dir,omitempty"` // inserted verbatim for the exercise-dir token
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; don't fail if there is none.
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults
	if config.Output.Directory == "" {
		config.Output.Directory = "./book-out"
	}

	// Content paths resolve relative to the config file so renders work from
	// any working directory. ExerciseDir stays verbatim: it is rendered text,
	// not a path the renderer opens.
	base := filepath.Dir(configPath)
	for ci := range config.Course.Chapters {
		for si := range config.Course.Chapters[ci].Sections {
			subs := config.Course.Chapters[ci].Sections[si].Subsections
			for ui := range subs {
				if subs[ui].Content != "" && !filepath.IsAbs(subs[ui].Content) {
					subs[ui].Content = filepath.Join(base, subs[ui].Content)
				}
			}
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// validate rejects course definitions the renderer cannot write safely.
// Duplicate section slugs would silently overwrite each other's files, so
// they are refused here instead.
func (c *Config) validate() error {
	if c.Course.Title == "" {
		return fmt.Errorf("course title is required")
	}
	seen := map[string]string{}
	for ci, chapter := range c.Course.Chapters {
		if chapter.Title == "" {
			return fmt.Errorf("chapter %d: title is required", ci+1)
		}
		for si, section := range chapter.Sections {
			if section.Title == "" {
				return fmt.Errorf("chapter %d section %d: title is required", ci+1, si+1)
			}
			tag := slug.Make(section.Title)
			if tag == "" {
				return fmt.Errorf("chapter %d section %d: title %q yields an empty file name", ci+1, si+1, section.Title)
			}
			if prev, dup := seen[tag]; dup {
				return fmt.Errorf("duplicate section file name %s.md: %q collides with %q", tag, section.Title, prev)
			}
			seen[tag] = section.Title
			for ui, sub := range section.Subsections {
				if sub.Title == "" {
					return fmt.Errorf("chapter %d section %d subsection %d: title is required", ci+1, si+1, ui+1)
				}
				if sub.Content == "" {
					return fmt.Errorf("chapter %d section %d subsection %d: content file is required", ci+1, si+1, ui+1)
				}
			}
		}
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Course: CourseConfig{
			Title: "My Course",
			Chapters: []Chapter{
				{
					Title: "Getting Started",
					Sections: []Section{
						{
							Title: "Intro",
							Subsections: []Subsection{
								{
									Title:       "Hello World",
									Content:     "content/hello.md",
									ExerciseDir: "exercises/hello-world",
								},
							},
						},
					},
				},
			},
		},
		Output: OutputConfig{
			Directory: "./book-out",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// loadEnvFile loads environment variables from the first .env file found.
// Existing environment variables always win.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}
