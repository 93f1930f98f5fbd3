package models

import "time"

// Recipe documents how a flavor is prepared. Ingredient, step and tip
// ordering is meaningful and preserved as stored.
type Recipe struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Ingredients []string  `bson:"ingredients" json:"ingredients"`
	Steps       []string  `bson:"steps" json:"steps"`
	Tips        []string  `bson:"tips" json:"tips"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// RecipePatch carries a partial recipe update.
type RecipePatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	Steps       *[]string `json:"steps,omitempty"`
	Tips        *[]string `json:"tips,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

// Apply merges the patch into a copy of the recipe.
func (p RecipePatch) Apply(r Recipe, now time.Time) Recipe {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]string(nil), (*p.Ingredients)...)
	}
	if p.Steps != nil {
		r.Steps = append([]string(nil), (*p.Steps)...)
	}
	if p.Tips != nil {
		r.Tips = append([]string(nil), (*p.Tips)...)
	}
	if p.ImageURL != nil {
		r.ImageURL = *p.ImageURL
	}
	r.UpdatedAt = now
	return r
}
