package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// providerFlags maps shared flag names to config keys
var providerFlags = map[string]string{
	"llm-provider":       "llm.provider",
	"llm-model":          "llm.model",
	"embedding-provider": "embedding.provider",
	"embedding-model":    "embedding.model",
	"catalog":            "catalog.path",
	"catalog-source":     "catalog.source",
	"collection":         "catalog.collection",
	"limit":              "catalog.limit",
	"concurrency":        "verify.concurrency",
	"http-proxy":         "llm.http_proxy",
	"https-proxy":        "llm.https_proxy",
}

func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().String("llm-provider", "", "judge provider (openai, anthropic, gemini, ollama, none)")
	cmd.Flags().String("llm-model", "", "judge model name")
	cmd.Flags().String("embedding-provider", "", "embedding provider (openai, gemini, ollama)")
	cmd.Flags().String("embedding-model", "", "embedding model name")
	cmd.Flags().String("catalog", "", "catalog titles file (.txt, .json, .yaml)")
	cmd.Flags().String("catalog-source", "", "catalog source (file, qdrant, postgres)")
	cmd.Flags().String("collection", "", "catalog collection name")
	cmd.Flags().Int("limit", 0, "maximum catalog titles to load")
	cmd.Flags().Int("concurrency", 0, "candidates verified in parallel, each on its own paced lane")
	cmd.Flags().Bool("no-cache", false, "disable the embedding cache")
	cmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// bindFlags binds the flags of the running command only, so commands
// sharing flag names do not override each other's bindings
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range providerFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}
