package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider       string
	RequestTimeout time.Duration
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	BaseURL string
	Model   string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI or an OpenAI compatible server
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// StoreConfig represents where rules and classification hints are kept
type StoreConfig struct {
	Type       string
	FileDir    string
	SQLitePath string
	MySQLDSN   string
}

// MailAccount represents one IMAP account
type MailAccount struct {
	Name          string
	Host          string
	Port          int
	Username      string
	Password      string
	KeyringKey    string
	TLS           bool
	Inbox         string
	ArchiveFolder string
	JunkFolder    string
	TrashFolder   string
}

// Address returns the host:port to dial
func (a MailAccount) Address() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// TriageConfig represents triage behaviour that is not specific to a provider
type TriageConfig struct {
	TrustedDomains []string
}

// rawMailAccount mirrors the YAML layout; TLS is a pointer so an absent key defaults to on
type rawMailAccount struct {
	Name          string `mapstructure:"name"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	KeyringKey    string `mapstructure:"keyring_key"`
	TLS           *bool  `mapstructure:"tls"`
	Inbox         string `mapstructure:"inbox"`
	ArchiveFolder string `mapstructure:"archive_folder"`
	JunkFolder    string `mapstructure:"junk_folder"`
	TrashFolder   string `mapstructure:"trash_folder"`
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.request_timeout")
	if err != nil {
		return LLMConfig{}, fmt.Errorf("invalid llm.request_timeout: %w", err)
	}
	return LLMConfig{
		Provider:       c.GetString("llm.provider"),
		RequestTimeout: timeout,
	}, nil
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		BaseURL: c.GetString("ollama.base_url"),
		Model:   c.GetString("ollama.model"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		FileDir:    c.GetString("store.file_dir"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}

// GetMailAccounts returns the configured IMAP accounts with defaults filled in
func (c *Config) GetMailAccounts() ([]MailAccount, error) {
	var raw []rawMailAccount
	if err := c.v.UnmarshalKey("mail.accounts", &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mail.accounts: %w", err)
	}

	accounts := make([]MailAccount, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("mail.accounts[%d]: name is required", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("mail.accounts[%d]: duplicate account name %q", i, r.Name)
		}
		seen[r.Name] = true
		if r.Host == "" {
			return nil, fmt.Errorf("mail.accounts[%d]: host is required", i)
		}

		account := MailAccount{
			Name:          r.Name,
			Host:          r.Host,
			Port:          r.Port,
			Username:      r.Username,
			Password:      r.Password,
			KeyringKey:    r.KeyringKey,
			TLS:           r.TLS == nil || *r.TLS,
			Inbox:         r.Inbox,
			ArchiveFolder: r.ArchiveFolder,
			JunkFolder:    r.JunkFolder,
			TrashFolder:   r.TrashFolder,
		}
		if account.Username == "" {
			account.Username = account.Name
		}
		if account.Inbox == "" {
			account.Inbox = "INBOX"
		}
		if account.Port == 0 {
			if account.TLS {
				account.Port = 993
			} else {
				account.Port = 143
			}
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// GetMaxMessages returns how many unread messages are listed per session
func (c *Config) GetMaxMessages() int {
	return c.GetInt("mail.max_messages")
}

// GetTriage returns the triage configuration
func (c *Config) GetTriage() TriageConfig {
	return TriageConfig{
		TrustedDomains: c.GetStringSlice("triage.trusted_domains"),
	}
}
