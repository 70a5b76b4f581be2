package mdxcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	precompileMessageType = "mdx.precompile"
	clearCacheMessageType = "mdx.cache.clear"
)

// PrecompileDocument is one source to warm into the compile cache.
type PrecompileDocument struct {
	// Key labels the document in the resulting summary, usually its path.
	Key string `json:"key"`
	// Source is the raw MDX text.
	Source string `json:"source"`
	// Development compiles the document in development mode.
	Development bool `json:"development,omitempty"`
}

// PrecompileCommand warms the compile cache for a batch of documents.
type PrecompileCommand struct {
	Documents []PrecompileDocument `json:"documents"`
	// FailOnError makes the command fail when any document does not compile.
	// Without it failures are only logged.
	FailOnError bool `json:"fail_on_error,omitempty"`
}

// Type implements command.Message.
func (PrecompileCommand) Type() string { return precompileMessageType }

// Validate ensures every document carries a unique key.
func (cmd PrecompileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Documents,
			validation.Required.ErrorObject(validation.NewError("mdx.precompile.documents_required", "at least one document is required")),
			validation.By(func(value any) error {
				docs, _ := value.([]PrecompileDocument)
				seen := make(map[string]struct{}, len(docs))
				for _, doc := range docs {
					key := strings.TrimSpace(doc.Key)
					if key == "" {
						return validation.NewError("mdx.precompile.key_required", "document key is required")
					}
					if _, ok := seen[key]; ok {
						return validation.NewError("mdx.precompile.key_duplicate", "document keys must be unique")
					}
					seen[key] = struct{}{}
				}
				return nil
			}),
		),
	)
}

// ClearCacheCommand drops every cached compilation.
type ClearCacheCommand struct {
	// Reason is recorded in the logs.
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (ClearCacheCommand) Type() string { return clearCacheMessageType }

// Validate implements command.Message.
func (cmd ClearCacheCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason, validation.Length(0, 256)),
	)
}
