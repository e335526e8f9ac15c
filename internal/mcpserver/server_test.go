package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	categories []companionform.Category
	created    []companionform.Draft
	err        error
}

func (f *fakeClient) Create(_ context.Context, d companionform.Draft) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, d)
	return nil
}

func (f *fakeClient) Update(context.Context, string, companionform.Draft) error { return f.err }

func (f *fakeClient) ListCategories(context.Context) ([]companionform.Category, error) {
	return f.categories, nil
}

func (f *fakeClient) GetCompanion(_ context.Context, id string) (*companionform.Record, error) {
	return &companionform.Record{ID: id}, nil
}

func newCallToolRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func validArgs() map[string]any {
	return map[string]any{
		"name":         "Ada",
		"description":  "Mathematician",
		"instructions": strings.Repeat("i", 200),
		"seed":         strings.Repeat("s", 200),
		"src":          "https://img.example/ada.png",
		"categoryId":   "Scientists",
	}
}

func TestNewServer(t *testing.T) {
	s := NewServer(&fakeClient{}, "0.1.0")
	require.NotNil(t, s.GetMCPServer())
}

func TestListCategories(t *testing.T) {
	s := NewServer(&fakeClient{categories: []companionform.Category{{ID: "c1", Name: "Scientists"}}}, "0.1.0")

	res, err := s.handleListCategories(context.Background(), newCallToolRequest(nil))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	var got []companionform.Category
	require.NoError(t, sonic.UnmarshalString(resultText(t, res), &got))
	assert.Equal(t, []companionform.Category{{ID: "c1", Name: "Scientists"}}, got)
}

func TestUpsertCompanion_Success(t *testing.T) {
	client := &fakeClient{categories: []companionform.Category{{ID: "c1", Name: "Scientists"}}}
	s := NewServer(client, "0.1.0")

	res, err := s.handleUpsertCompanion(context.Background(), newCallToolRequest(validArgs()))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, companionform.SuccessMessage, resultText(t, res))
	require.Len(t, client.created, 1)
	assert.Equal(t, "c1", client.created[0].CategoryID)
}

func TestUpsertCompanion_Invalid(t *testing.T) {
	s := NewServer(&fakeClient{}, "0.1.0")
	args := validArgs()
	delete(args, "name")

	res, err := s.handleUpsertCompanion(context.Background(), newCallToolRequest(args))

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Name is required.")
}

func TestUpsertCompanion_Failure(t *testing.T) {
	s := NewServer(&fakeClient{err: errors.New("dial tcp 10.0.0.7:6060: connection refused")}, "0.1.0")

	res, err := s.handleUpsertCompanion(context.Background(), newCallToolRequest(validArgs()))

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, companionform.FailureMessage, resultText(t, res))
	assert.NotContains(t, resultText(t, res), "connection refused")
}

func TestUpsertCompanion_BadArguments(t *testing.T) {
	s := NewServer(&fakeClient{}, "0.1.0")

	res, err := s.handleUpsertCompanion(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, res.IsError)
}
