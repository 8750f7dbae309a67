package mcpsrv

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/mcpsrv/dto"
	"github.com/qyinm/jamemart/types"
	"github.com/qyinm/jamemart/web"
)

type gameListArgs struct {
	Query    string `json:"query,omitempty" jsonschema:"Optional case-insensitive title search"`
	Category string `json:"category,omitempty" jsonschema:"Optional category name; All or empty means every category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Optional maximum number of games returned"`
}

type gameGetArgs struct {
	ID string `json:"id" jsonschema:"Game id"`
}

type gameSuggestArgs struct {
	Query string `json:"query" jsonschema:"Search term to find near misses for"`
	Limit int    `json:"limit,omitempty" jsonschema:"Optional maximum number of suggestions"`
}

type gameListOutput struct {
	Query    string     `json:"query"`
	Category string     `json:"category"`
	Limit    int        `json:"limit"`
	Total    int        `json:"total"`
	Items    []dto.Game `json:"items"`
}

type gameGetOutput struct {
	Item dto.GameDetail `json:"item"`
}

type categoryListOutput struct {
	Total int            `json:"total"`
	Items []dto.Category `json:"items"`
}

type gameSuggestOutput struct {
	Query string     `json:"query"`
	Items []dto.Game `json:"items"`
}

type catalogReloadOutput struct {
	Status   string   `json:"status"`
	Games    int      `json:"games"`
	Rejected []string `json:"rejected"`
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	// PlayerBaseURL is the web player root used for game_get player links.
	PlayerBaseURL string
}

type reloadableSource interface {
	Reload(ctx context.Context) error
	Snapshot() *catalog.Catalog
}

func NewServer(source types.GameSource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "jamemart", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "game_list",
		Description: "List games filtered by title search and category.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args gameListArgs) (*mcp.CallToolResult, gameListOutput, error) {
		return gameListHandler(ctx, req, args, source)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "game_get",
		Description: "Get one game by id, with its embed URL and player link.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args gameGetArgs) (*mcp.CallToolResult, gameGetOutput, error) {
		return gameGetHandler(ctx, req, args, source, opts.PlayerBaseURL)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "category_list",
		Description: "List game categories with counts. All comes first.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, categoryListOutput, error) {
		return categoryListHandler(ctx, req, source)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "game_suggest",
		Description: "Suggest game titles close to a search term.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args gameSuggestArgs) (*mcp.CallToolResult, gameSuggestOutput, error) {
		return gameSuggestHandler(ctx, req, args, source)
	})

	if opts.EnableAdmin && strings.TrimSpace(opts.APIKey) != "" {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "catalog_reload",
			Description: "Reload the catalog from its source (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, catalogReloadOutput, error) {
			return catalogReloadHandler(ctx, req, source)
		})
	}

	return server
}

func gameListHandler(_ context.Context, _ *mcp.CallToolRequest, args gameListArgs, source types.GameSource) (*mcp.CallToolResult, gameListOutput, error) {
	category := strings.TrimSpace(args.Category)
	if category == "" {
		category = types.AllCategories
	}
	if !knownCategory(source.Categories(), category) {
		return errorToolResult("unknown category " + category + "; call category_list"), gameListOutput{}, nil
	}

	crit := catalog.Criteria{Search: strings.TrimSpace(args.Query), Category: category}
	filtered := catalog.Filter(source.Games(), crit)

	limit := args.Limit
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}
	games := filtered
	if len(games) > limit {
		games = games[:limit]
	}

	return nil, gameListOutput{
		Query:    crit.Search,
		Category: crit.Category,
		Limit:    limit,
		Total:    len(filtered),
		Items:    dto.FromGames(games),
	}, nil
}

func gameGetHandler(_ context.Context, _ *mcp.CallToolRequest, args gameGetArgs, source types.GameSource, playerBase string) (*mcp.CallToolResult, gameGetOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), gameGetOutput{}, nil
	}

	g, ok := source.Game(id)
	if !ok {
		return errorToolResult(catalog.ErrNotFound.Error() + ": " + id), gameGetOutput{}, nil
	}

	playerURL := ""
	if strings.TrimSpace(playerBase) != "" {
		playerURL = web.GameURL(playerBase, g.ID())
	}
	return nil, gameGetOutput{Item: dto.FromGameDetail(g, playerURL, web.EmbedPermissions)}, nil
}

func categoryListHandler(_ context.Context, _ *mcp.CallToolRequest, source types.GameSource) (*mcp.CallToolResult, categoryListOutput, error) {
	categories := source.Categories()
	return nil, categoryListOutput{
		Total: len(categories),
		Items: dto.FromCategories(categories, source.Games()),
	}, nil
}

func gameSuggestHandler(_ context.Context, _ *mcp.CallToolRequest, args gameSuggestArgs, source types.GameSource) (*mcp.CallToolResult, gameSuggestOutput, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errorToolResult("query is required"), gameSuggestOutput{}, nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 5
	}
	if limit > 25 {
		limit = 25
	}
	return nil, gameSuggestOutput{
		Query: query,
		Items: dto.FromGames(catalog.Suggest(source.Games(), query, limit)),
	}, nil
}

func catalogReloadHandler(ctx context.Context, _ *mcp.CallToolRequest, source types.GameSource) (*mcp.CallToolResult, catalogReloadOutput, error) {
	live, ok := source.(reloadableSource)
	if !ok {
		return errorToolResult("reload is not supported by this source"), catalogReloadOutput{}, nil
	}
	if err := live.Reload(ctx); err != nil {
		return errorToolResult("reload failed: " + err.Error()), catalogReloadOutput{}, nil
	}

	snap := live.Snapshot()
	rejected := make([]string, 0, len(snap.Rejected()))
	for _, r := range snap.Rejected() {
		rejected = append(rejected, r.String())
	}
	return nil, catalogReloadOutput{Status: "ok", Games: snap.Len(), Rejected: rejected}, nil
}

func knownCategory(categories []string, name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
