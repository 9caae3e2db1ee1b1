// xogen sends prompts to local and hosted LLM providers from the command line.
//
// Usage:
//
//	# Generate with the default provider from the config file
//	xogen generate "Explain goroutines in one sentence"
//
//	# Pipe a prompt into a specific provider
//	cat prompt.txt | xogen generate --provider groq --max-tokens 512
//
//	# Check which configured providers answer
//	xogen probe
//
//	# List supported providers
//	xogen providers
//
//	# Write a starter config to $XDG_CONFIG_HOME/xogen/config.toml
//	xogen config init
package main

func main() {
	Execute()
}
