// Package models lists the models an LM Studio server currently
// serves, so users can pick a model name for the translation session.
package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister queries an LM Studio server for its loaded models.
type Lister struct {
	host   string
	client *openai.Client
}

// NewLister creates a lister for the given server host (host:port, no
// scheme).
func NewLister(host string) *Lister {
	host = strings.TrimSpace(host)
	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = fmt.Sprintf("http://%s/v1", host)
	return &Lister{
		host:   host,
		client: openai.NewClientWithConfig(cfg),
	}
}

// ListAvailableModels prints the models the server reports, sorted by
// ID, marking the currently configured one.
func (l *Lister) ListAvailableModels(ctx context.Context, out io.Writer, current string) error {
	if l.host == "" {
		return fmt.Errorf("LM Studio server host not configured. Set --server or server.host in .transcyplate.yaml")
	}

	resp, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models from %s: %w", l.host, err)
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "Models on %s:\n", l.host)
	if len(ids) == 0 {
		fmt.Fprintln(out, "  No models loaded")
		return nil
	}
	for _, id := range ids {
		if id == current {
			fmt.Fprintf(out, "  %s (selected)\n", id)
		} else {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
	return nil
}
