package models

import (
	"database/sql/driver"
	"time"
)

// Cuisine and Tag are lookup documents. Recipes embed id+name snapshots of
// them rather than references, so later edits to the lookup tables do not
// rewrite existing recipes.
type Cuisine struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Tag struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CuisineRef is the snapshot embedded in a recipe.
type CuisineRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c CuisineRef) Value() (driver.Value, error) { return jsonbValue(c) }
func (c *CuisineRef) Scan(src interface{}) error  { return jsonbScan(src, c) }

type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagRefs []TagRef

func (t TagRefs) Value() (driver.Value, error) { return jsonbValue(t) }
func (t *TagRefs) Scan(src interface{}) error  { return jsonbScan(src, t) }

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
}

type Ingredients []Ingredient

func (i Ingredients) Value() (driver.Value, error) { return jsonbValue(i) }
func (i *Ingredients) Scan(src interface{}) error  { return jsonbScan(src, i) }

type Instructions []string

func (i Instructions) Value() (driver.Value, error) { return jsonbValue(i) }
func (i *Instructions) Scan(src interface{}) error  { return jsonbScan(src, i) }

// Review is appended to a recipe's review list, never edited in place.
type Review struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type Reviews []Review

func (r Reviews) Value() (driver.Value, error) { return jsonbValue(r) }
func (r *Reviews) Scan(src interface{}) error  { return jsonbScan(src, r) }

// Recipe is the full recipe document.
type Recipe struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Cuisine      CuisineRef   `db:"cuisine" json:"cuisine"`
	PrepTime     int          `db:"prep_time" json:"prepTime"`
	CookTime     int          `db:"cook_time" json:"cookTime"`
	Servings     int          `db:"servings" json:"servings"`
	Ingredients  Ingredients  `db:"ingredients" json:"ingredients"`
	Instructions Instructions `db:"instructions" json:"instructions"`
	Tags         TagRefs      `db:"tags" json:"tags"`
	Reviews      Reviews      `db:"reviews" json:"reviews"`
}

// RecipeSummary is the projection returned by recipe search: name plus the
// cuisine and tag names only.
type RecipeSummary struct {
	Name    string   `json:"name"`
	Cuisine string   `json:"cuisine"`
	Tags    []string `json:"tags"`
}
