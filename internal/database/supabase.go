package database

import (
	"fmt"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds the table client for the project's REST API.
// No request is made here; bad credentials surface on the first query.
func NewSupabaseClient(projectURL, key string) (*supabase.Client, error) {
	projectURL = strings.TrimRight(projectURL, "/")
	if !strings.HasPrefix(projectURL, "http://") && !strings.HasPrefix(projectURL, "https://") {
		return nil, fmt.Errorf("invalid Supabase URL %q", projectURL)
	}

	client, err := supabase.NewClient(projectURL, key, &supabase.ClientOptions{Schema: "public"})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}
