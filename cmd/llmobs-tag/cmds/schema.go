package cmds

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/llmobs/pkg/llmobs"
)

func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the serialized input and output messages tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(llmobs.MessagesSchema())
		},
	}
}
