package services

import (
	"context"
	"net/http"
	"testing"
)

func TestCategoryService_CreateDerivesSlug(t *testing.T) {
	f := newFixture(t)
	c := f.category(t, "Vintage Coins & Rocks!")
	if c.Slug != "vintage-coins-rocks" {
		t.Errorf("slug = %q, want vintage-coins-rocks", c.Slug)
	}
}

func TestCategoryService_CreateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.category(t, "Coins")

	_, err := f.categories.Create(ctx, CategoryRequest{Name: "  COINS "})
	assertStatus(t, err, http.StatusConflict, MsgCategoryExists)

	_, err = f.categories.Create(ctx, CategoryRequest{Name: "!!!"})
	assertStatus(t, err, http.StatusBadRequest, "Validation error")

	_, err = f.categories.Create(ctx, CategoryRequest{})
	assertStatus(t, err, http.StatusBadRequest, "Validation error")
}

func TestCategoryService_UpdateConflictExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coins := f.category(t, "Coins")
	f.category(t, "Rocks")

	renamed, err := f.categories.Update(ctx, coins.ID, CategoryRequest{Name: "coins"})
	if err != nil {
		t.Fatalf("renaming to own slug should succeed: %v", err)
	}
	if renamed.Name != "coins" || renamed.Slug != "coins" {
		t.Errorf("renamed = %+v", renamed)
	}

	_, err = f.categories.Update(ctx, coins.ID, CategoryRequest{Name: "Rocks"})
	assertStatus(t, err, http.StatusConflict, MsgCategoryExists)

	_, err = f.categories.Update(ctx, 404, CategoryRequest{Name: "Stamps"})
	assertStatus(t, err, http.StatusNotFound, MsgCategoryNotFound)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coins := f.category(t, "Coins")
	f.product(t, "Penny", coins.ID, productOpts{})
	f.product(t, "Hidden Nickel", coins.ID, productOpts{hidden: true})

	err := f.categories.Delete(ctx, coins.ID)
	assertStatus(t, err, http.StatusConflict, "Cannot delete: 2 product(s) are assigned to this category")

	cats, err := f.catalog.ListCategories(ctx, true)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(cats) != 1 || cats[0].ID != coins.ID {
		t.Errorf("category should remain after failed delete, got %+v", cats)
	}

	empty := f.category(t, "Empty")
	if err := f.categories.Delete(ctx, empty.ID); err != nil {
		t.Errorf("Delete(empty) error = %v", err)
	}
	assertStatus(t, f.categories.Delete(ctx, empty.ID), http.StatusNotFound, MsgCategoryNotFound)
}
