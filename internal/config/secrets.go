package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/jonathan/interview-sync/internal/blob"
)

// Secrets is the TOML secrets file shared with the chat front-end:
//
//	[azure]
//	storage_account_name = "..."
//	storage_account_key = "..."
//	container_name = "landing"
type Secrets struct {
	Azure  blob.AzureConfig `toml:"azure"`
	NocoDB struct {
		Token string `toml:"token"`
	} `toml:"nocodb"`
}

// LoadSecrets parses a secrets file. A missing or malformed file is an error.
func LoadSecrets(path string) (*Secrets, error) {
	var s Secrets
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("failed to load secrets file %s: %w", path, err)
	}
	return &s, nil
}

// ApplySecrets fills credentials that are still empty. Values from the
// config file and environment take precedence.
func (c *Config) ApplySecrets(s *Secrets) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Blob.Azure.AccountName, s.Azure.AccountName)
	fill(&c.Blob.Azure.AccountKey, s.Azure.AccountKey)
	fill(&c.Blob.Azure.Container, s.Azure.Container)
	fill(&c.Blob.Azure.Endpoint, s.Azure.Endpoint)
	fill(&c.RecordStore.Token, s.NocoDB.Token)
}
