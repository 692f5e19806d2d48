package metadata

import (
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/internal/issuer"
	"github.com/openvci/vci-service/pkg/service/credconfig"
)

const credentialSubjectPathRoot = "credentialSubject"

// buildConfigurationMetadata projects a stored configuration into its
// wallet-facing form.
func buildConfigurationMetadata(configuration credconfig.CredentialConfiguration) CredentialConfigurationMetadata {
	projected := CredentialConfigurationMetadata{
		ID:     configuration.Identifier,
		Format: configuration.Format,
		Scope:  configuration.Scope,
		CredentialDefinition: CredentialDefinition{
			Type: definitionTypes(configuration),
		},
		CredentialMetadata: CredentialMetadata{
			Display: parseDisplay(configuration),
			Claims:  claimPaths(configuration.Claims),
		},
	}
	if configuration.SigningAlgorithm != "" {
		projected.CredentialSigningAlgValuesSupported = []string{configuration.SigningAlgorithm}
	}
	return projected
}

func definitionTypes(configuration credconfig.CredentialConfiguration) []string {
	types := []string{issuer.VCType, configuration.Identifier}
	if configuration.Type != "" && configuration.Type != configuration.Identifier {
		types = append(types, configuration.Type)
	}
	return types
}

// parseDisplay decodes administrator-supplied display JSON. Malformed input
// is logged and degrades to an empty list so one bad configuration cannot
// break the metadata document.
func parseDisplay(configuration credconfig.CredentialConfiguration) []map[string]any {
	display := make([]map[string]any, 0)
	if configuration.Metadata == nil || configuration.Metadata.Display == "" {
		return display
	}
	if err := json.Unmarshal([]byte(configuration.Metadata.Display), &display); err != nil {
		logrus.WithError(err).Warnf("ignoring malformed display metadata for configuration: %s", configuration.Identifier)
		return make([]map[string]any, 0)
	}
	return display
}

func claimPaths(claims []string) []ClaimMetadata {
	paths := make([]ClaimMetadata, 0, len(claims))
	for _, claim := range claims {
		paths = append(paths, ClaimMetadata{Path: []string{credentialSubjectPathRoot, claim}})
	}
	return paths
}
