package content_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/model"
)

func loadFixture(t *testing.T) *content.Store {
	t.Helper()
	s, err := content.Load(content.Options{
		DataDir:  filepath.Join("testdata", "data"),
		PagesDir: filepath.Join("testdata", "pages"),
	}, logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := loadFixture(t)

	assert.Len(t, s.Posts(), 3)
	assert.Len(t, s.Cities(), 3)
	assert.Len(t, s.FAQ(), 1)
	assert.Len(t, s.Pages(), 3)

	p := s.Posts()[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Guía ERP", p.Title.Get(i18n.Spanish))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.PublishedAt.UTC())
	assert.Equal(t, []string{"p3"}, p.RelatedPosts)

	q := s.FAQ()[0].Questions[0]
	assert.Equal(t, "¿Qué hacen?", q.Question.Get(i18n.Spanish))
	assert.Equal(t, "What do you do?", q.Question.Get(i18n.English))
}

func TestLoad_CategoriesKeepFileOrder(t *testing.T) {
	s := loadFixture(t)

	cats := s.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "erp", cats[0].Key)
	assert.Equal(t, "web", cats[1].Key)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := content.Load(content.Options{DataDir: t.TempDir()}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog-posts")
}

func TestLoad_DuplicatePostID(t *testing.T) {
	_, err := content.Load(content.Options{DataDir: filepath.Join("testdata", "broken")}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated")
}

func TestNew_RejectsInvalidPost(t *testing.T) {
	_, err := content.New([]*model.BlogPost{{ID: "x", Slug: "x"}}, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestNew_RejectsNilRecords(t *testing.T) {
	_, err := content.New([]*model.BlogPost{validPost("a"), nil}, nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog post #2 is empty")

	_, err = content.New(nil, nil, []*model.City{nil}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city #1 is empty")
}

func TestNew_CopiesInput(t *testing.T) {
	posts := []*model.BlogPost{validPost("a"), validPost("b")}
	s, err := content.New(posts, nil, nil, nil, nil)
	require.NoError(t, err)

	posts[0] = validPost("z")
	assert.Equal(t, "a", s.Posts()[0].ID)
}

func validPost(id string) *model.BlogPost {
	return &model.BlogPost{
		ID:          id,
		Slug:        id,
		Title:       i18n.Text{i18n.Spanish: id},
		Excerpt:     i18n.Text{i18n.Spanish: id},
		Content:     i18n.Text{i18n.Spanish: id},
		Author:      model.Author{Name: "Ana"},
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories:  []string{"erp"},
	}
}
