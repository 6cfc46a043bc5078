package commands

import (
	"context"
	"path"
	"sort"
	"strings"

	"sceneforge/internal/application"
	"sceneforge/internal/domain"
	"sceneforge/internal/ports"
)

// DefaultSearchLimit caps the rows fetched from the index per search
const DefaultSearchLimit = 100

// Match tiers, best first
const (
	ScoreExact       = 500
	ScoreBaseName    = 400
	ScorePrefix      = 300
	ScoreWordPrefix  = 200
	ScoreSubstring   = 100
	ScoreSceneFile   = 50
	ScoreSubsequence = 10
)

// EntityResult is an indexed entity with its relevance score
type EntityResult struct {
	domain.IndexedEntity
	Score int
}

// SearchEntitiesCommand looks up indexed entities by name and ranks them
type SearchEntitiesCommand struct {
	index ports.SceneIndex
	Query string
	Limit int
}

// NewSearchEntitiesCommand creates a new SearchEntitiesCommand
func NewSearchEntitiesCommand(index ports.SceneIndex, query string) *SearchEntitiesCommand {
	return &SearchEntitiesCommand{
		index: index,
		Query: query,
		Limit: DefaultSearchLimit,
	}
}

// Validate checks that an index is configured
func (c *SearchEntitiesCommand) Validate() error {
	if c.index == nil {
		return &application.ValidationError{Field: "index", Message: "no scene index configured"}
	}
	return nil
}

// Execute runs the search. Queries shorter than two characters return
// nothing.
func (c *SearchEntitiesCommand) Execute(ctx context.Context) ([]EntityResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(c.Query)
	if len(query) < 2 {
		return nil, nil
	}

	rows, err := c.index.SearchEntities(query, c.Limit)
	if err != nil {
		return nil, err
	}
	return Rank(rows, query), nil
}

// MatchScore rates how well an entity name matches query. Names carrying a
// duplicate suffix ("lamp_2") match their base name almost as well as an
// exact hit. Zero means no match.
func MatchScore(name, query string) int {
	name = strings.ToLower(name)
	query = strings.ToLower(query)
	if query == "" {
		return 0
	}

	switch {
	case name == query:
		return ScoreExact
	case domain.BaseName(name) == query:
		return ScoreBaseName
	case strings.HasPrefix(name, query):
		return ScorePrefix
	case hasWordPrefix(name, query):
		return ScoreWordPrefix
	case strings.Contains(name, query):
		return ScoreSubstring
	case isSubsequence(name, query):
		return ScoreSubsequence
	}
	return 0
}

// hasWordPrefix reports whether a word of name after a separator starts
// with query
func hasWordPrefix(name, query string) bool {
	for i := 1; i < len(name); i++ {
		if isSeparator(name[i-1]) && strings.HasPrefix(name[i:], query) {
			return true
		}
	}
	return false
}

func isSeparator(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c == ' ' || c == '/'
}

func isSubsequence(s, sub string) bool {
	j := 0
	for i := 0; i < len(s) && j < len(sub); i++ {
		if s[i] == sub[j] {
			j++
		}
	}
	return j == len(sub)
}

// sceneFileScore rates a match on the scene file name, without extension
func sceneFileScore(uri, query string) int {
	file := strings.ToLower(strings.TrimSuffix(path.Base(uri), path.Ext(uri)))
	if strings.Contains(file, strings.ToLower(query)) {
		return ScoreSceneFile
	}
	return 0
}

// Rank scores entities against query and sorts them best first. Entities
// free of conflicts win ties; remaining ties keep index order.
func Rank(rows []domain.IndexedEntity, query string) []EntityResult {
	ranked := make([]EntityResult, 0, len(rows))
	for _, r := range rows {
		score := max(MatchScore(r.Name, query), sceneFileScore(r.SceneURI, query))
		if score == 0 {
			continue
		}
		ranked = append(ranked, EntityResult{IndexedEntity: r, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return conflicted(ranked[i]) < conflicted(ranked[j])
	})
	return ranked
}

func conflicted(r EntityResult) int {
	if r.Missing || r.Duplicate {
		return 1
	}
	return 0
}
