//go:build integration

package repository

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"tedblog/internal/db"
	"tedblog/internal/models"
	"tedblog/internal/sqlproxy"
	"tedblog/internal/testinfra"
)

type fixture struct {
	gdb      *gorm.DB
	ormRepo  *Repository
	sqlRepo  *Repository
	author   models.User
	category []models.Category
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := testinfra.StartPostgres(t)
	ctx := context.Background()

	gdb, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	sqlproxy.NewServer(sqlproxy.PoolQuerier{Pool: pool}).Register(engine)
	proxy := httptest.NewServer(engine)
	t.Cleanup(proxy.Close)

	f := &fixture{
		gdb:     gdb,
		ormRepo: New(gdb, NewORMReader(gdb)),
		sqlRepo: New(gdb, NewSQLReader(sqlproxy.NewClient(proxy.URL, 10*time.Second))),
	}

	bio := "writes about the web"
	f.author = models.User{Name: "Ted", Email: "ted@example.com", Bio: &bio}
	if err := gdb.Create(&f.author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	if err := gdb.Order("id").Find(&f.category).Error; err != nil || len(f.category) < 2 {
		t.Fatalf("seeded categories missing: %v", err)
	}
	return f
}

func (f *fixture) createPost(t *testing.T, title string, authorID uint, published *time.Time) *models.Post {
	t.Helper()
	excerpt := "About " + title
	post, err := f.ormRepo.Create(context.Background(), models.NewPost{
		Title:       title,
		Slug:        GenerateSlug(title),
		Excerpt:     &excerpt,
		Content:     "# " + title,
		AuthorID:    authorID,
		PublishedAt: published,
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return post
}

func at(day int) *time.Time {
	t := time.Date(2024, 5, day, 12, 30, 0, 123456000, time.UTC)
	return &t
}

func TestReadPathsAreEquivalent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	older := f.createPost(t, "Older Post", f.author.ID, at(1))
	newer := f.createPost(t, "Newer Post", f.author.ID, at(9))
	draft := f.createPost(t, "A Draft", f.author.ID, nil)
	orphan := f.createPost(t, "Orphaned Post", 999, at(5))

	links := []models.PostCategory{
		{PostID: older.ID, CategoryID: f.category[0].ID},
		{PostID: older.ID, CategoryID: f.category[1].ID},
		{PostID: newer.ID, CategoryID: f.category[1].ID},
	}
	if err := f.gdb.Create(&links).Error; err != nil {
		t.Fatalf("link categories: %v", err)
	}
	comments := []models.Comment{
		{Content: "great read", PostID: older.ID, AuthorID: f.author.ID, CreatedAt: *at(2)},
		{Content: "from a deleted account", PostID: older.ID, AuthorID: 888, CreatedAt: *at(3)},
		{Content: "draft feedback", PostID: draft.ID, AuthorID: f.author.ID, CreatedAt: *at(4)},
	}
	if err := f.gdb.Create(&comments).Error; err != nil {
		t.Fatalf("create comments: %v", err)
	}

	viaORM, err := f.ormRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("orm GetAll: %v", err)
	}
	viaSQL, err := f.sqlRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("proxy GetAll: %v", err)
	}
	if diff := cmp.Diff(viaORM, viaSQL); diff != "" {
		t.Fatalf("read paths disagree (-orm +proxy):\n%s", diff)
	}

	var order []uint
	for _, p := range viaORM {
		order = append(order, p.ID)
	}
	if diff := cmp.Diff([]uint{newer.ID, orphan.ID, older.ID, draft.ID}, order); diff != "" {
		t.Errorf("listing order (-want +got):\n%s", diff)
	}

	for _, id := range []uint{older.ID, orphan.ID, draft.ID} {
		a, err := f.ormRepo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("orm GetByID(%d): %v", id, err)
		}
		b, err := f.sqlRepo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("proxy GetByID(%d): %v", id, err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("GetByID(%d) disagrees (-orm +proxy):\n%s", id, diff)
		}
	}

	a, _ := f.ormRepo.GetBySlug(ctx, "older-post")
	b, _ := f.sqlRepo.GetBySlug(ctx, "older-post")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("GetBySlug disagrees (-orm +proxy):\n%s", diff)
	}
	if len(a.Comments) != 2 || a.Comments[0].Author.Name != models.UnknownAuthorName {
		t.Fatalf("newest comment is from a missing user and should carry the placeholder: %+v", a.Comments)
	}
	if a.Comments[0].Author.ID != older.AuthorID {
		t.Errorf("comment placeholder id = %d, want the post's author id %d", a.Comments[0].Author.ID, older.AuthorID)
	}

	o, _ := f.sqlRepo.GetByID(ctx, orphan.ID)
	if o.Author.Name != models.UnknownAuthorName || o.Author.ID != 999 {
		t.Errorf("orphaned post author = %+v", o.Author)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created := f.createPost(t, "Round Trip", f.author.ID, at(7))

	for _, repo := range []*Repository{f.ormRepo, f.sqlRepo} {
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("%s GetByID: %v", repo.ReadPath(), err)
		}
		if diff := cmp.Diff(*created, got.Post); diff != "" {
			t.Errorf("%s round trip (-created +read):\n%s", repo.ReadPath(), diff)
		}
		if got.Author.Name != "Ted" {
			t.Errorf("%s author = %+v", repo.ReadPath(), got.Author)
		}
	}
}

func TestWrites(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	post := f.createPost(t, "Editable", f.author.ID, nil)

	if _, err := f.ormRepo.Create(ctx, models.NewPost{Title: "Dup", Slug: post.Slug, Content: "x", AuthorID: f.author.ID}); err == nil {
		t.Error("duplicate slug should fail")
	}

	time.Sleep(2 * time.Millisecond)
	title := post.Title
	updated, err := f.ormRepo.Update(ctx, post.ID, models.PostUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.UpdatedAt.After(post.UpdatedAt) {
		t.Errorf("updated_at should move forward: %v -> %v", post.UpdatedAt, updated.UpdatedAt)
	}
	if updated.Title != title || updated.Slug != post.Slug {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if _, err := f.ormRepo.Update(ctx, 424242, models.PostUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of a missing post should be ErrNotFound, got %v", err)
	}

	removed, err := f.ormRepo.Delete(ctx, 424242)
	if err != nil || removed {
		t.Errorf("delete of a missing post = %v, %v; want false, nil", removed, err)
	}

	removed, err = f.ormRepo.Delete(ctx, post.ID)
	if err != nil || !removed {
		t.Errorf("delete = %v, %v; want true, nil", removed, err)
	}
	if _, err := f.sqlRepo.GetByID(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted post should be gone, got %v", err)
	}
}
