package ai

import (
	"fmt"

	"computer_use_demo/infrastructure/config"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// AuthMode is how requests to the inference endpoint are authenticated.
// Exactly one mode is resolved per client.
type AuthMode interface {
	Name() string
	requestOption() option.RequestOption
}

// StaticKey authenticates with an Azure OpenAI API key
type StaticKey struct {
	Key string
}

func (StaticKey) Name() string { return "static-key" }

func (k StaticKey) requestOption() option.RequestOption {
	return azure.WithAPIKey(k.Key)
}

// CredentialChain authenticates with bearer tokens from an Azure identity credential
type CredentialChain struct {
	Credential azcore.TokenCredential
}

func (CredentialChain) Name() string { return "credential-chain" }

func (c CredentialChain) requestOption() option.RequestOption {
	return azure.WithTokenCredential(c.Credential)
}

// CredentialFactory builds the credential used when no API key is configured
type CredentialFactory func() (azcore.TokenCredential, error)

// DefaultCredential uses the standard Azure credential chain (env, workload identity, managed identity, CLI)
func DefaultCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}

// ResolveAuth picks the static key when present, otherwise the credential chain
func ResolveAuth(cfg *config.Config, newCredential CredentialFactory) (AuthMode, error) {
	if cfg.UsesStaticKey() {
		return StaticKey{Key: cfg.APIKey}, nil
	}

	if newCredential == nil {
		newCredential = DefaultCredential
	}
	cred, err := newCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return CredentialChain{Credential: cred}, nil
}
