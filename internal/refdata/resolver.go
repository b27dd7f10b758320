//-------------------------------------------------------------------------
//
// Akhdar BI Command Center
//
// Copyright (c) 2025 - 2026, Akhdar Perfumes
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package refdata builds the read-only lookup structures the fact build
// resolves against: line-item name to product mapping, ingredient name
// to material, and recipe to ingredient list. Materials live in an
// arena addressed by integer keys so recipe entries can hold resolved
// references and dangling ingredients are detected at build time.
package refdata

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/report"
)

// NoMaterial marks a recipe ingredient that resolved to no material.
const NoMaterial = -1

// Ingredient is one resolved recipe entry. MaterialKey indexes the
// resolver's material arena, or NoMaterial when unresolved.
type Ingredient struct {
	Name        string
	MaterialKey int
	Percent     decimal.NullDecimal
	AmountML    decimal.NullDecimal
}

// RecipeKey identifies one recipe at one batch size.
type RecipeKey struct {
	RecipeID    string
	BatchSizeML int
}

// Resolver holds the lookup structures. Safe for concurrent reads once
// built.
type Resolver struct {
	productsByName map[string]model.SKUMapping
	productsBySKU  map[string]model.SKUMapping

	materials       []model.Material
	materialByID    map[string]int
	materialByMatch map[string]int

	recipes map[RecipeKey][]Ingredient
}

// NormalizeIngredient produces the case- and whitespace-normalized
// match key for an ingredient name.
func NormalizeIngredient(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Build constructs a Resolver from the staged reference sheets.
// Materials without a usable cost are recorded as known-unknowns;
// recipe ingredients resolving to no material at all are recorded as
// unresolved references. Only "final" recipe variants participate in
// costing.
func Build(skuMap []model.SKUMapping, materials []model.Material, recipes []model.RecipeLine, rep *report.Report) *Resolver {
	r := &Resolver{
		productsByName:  make(map[string]model.SKUMapping, len(skuMap)),
		productsBySKU:   make(map[string]model.SKUMapping, len(skuMap)),
		materials:       make([]model.Material, 0, len(materials)),
		materialByID:    make(map[string]int, len(materials)),
		materialByMatch: make(map[string]int, len(materials)),
		recipes:         make(map[RecipeKey][]Ingredient),
	}

	for _, m := range skuMap {
		r.productsByName[m.LineItemName] = m
		r.productsBySKU[m.InternalSKU] = m
	}

	for _, m := range materials {
		key := len(r.materials)
		r.materials = append(r.materials, m)
		r.materialByID[m.MaterialID] = key
		if match := NormalizeIngredient(m.IngredientMatch); match != "" {
			r.materialByMatch[match] = key
		}
		if !m.HasKnownCost {
			rep.Add(report.KnownUnknownCost, "material",
				fmt.Sprintf("%s (%s)", m.MaterialID, m.Name))
		}
	}

	for _, line := range recipes {
		if line.Variant != "final" {
			continue
		}
		key := RecipeKey{RecipeID: line.RecipeID, BatchSizeML: line.BatchSizeML}
		ing := Ingredient{
			Name:        line.IngredientMatch,
			MaterialKey: NoMaterial,
			Percent:     line.Percent,
			AmountML:    line.AmountML,
		}
		if idx, ok := r.materialByID[line.MaterialID]; ok && line.MaterialID != "" {
			ing.MaterialKey = idx
		} else if idx, ok := r.materialByMatch[NormalizeIngredient(line.IngredientMatch)]; ok {
			ing.MaterialKey = idx
		} else {
			rep.Add(report.UnresolvedReference, "recipe_ingredient",
				fmt.Sprintf("recipe %s: ingredient %q matches no material", line.RecipeID, line.IngredientMatch))
		}
		r.recipes[key] = append(r.recipes[key], ing)
	}

	return r
}

// ProductByLineItem resolves a storefront line-item name to its SKU
// mapping.
func (r *Resolver) ProductByLineItem(name string) (model.SKUMapping, bool) {
	m, ok := r.productsByName[name]
	return m, ok
}

// ProductBySKU resolves an internal SKU to its mapping.
func (r *Resolver) ProductBySKU(sku string) (model.SKUMapping, bool) {
	m, ok := r.productsBySKU[sku]
	return m, ok
}

// Material returns the arena entry for a material key.
func (r *Resolver) Material(key int) model.Material {
	return r.materials[key]
}

// MaterialKeyByID resolves a material id to its arena key.
func (r *Resolver) MaterialKeyByID(id string) (int, bool) {
	key, ok := r.materialByID[id]
	return key, ok
}

// MaterialKeyByMatch resolves a normalized ingredient name to its arena
// key.
func (r *Resolver) MaterialKeyByMatch(name string) (int, bool) {
	key, ok := r.materialByMatch[NormalizeIngredient(name)]
	return key, ok
}

// Materials returns the material arena in key order.
func (r *Resolver) Materials() []model.Material {
	return r.materials
}

// Recipe returns the final-variant ingredient list for a recipe at a
// batch size.
func (r *Resolver) Recipe(recipeID string, batchSizeML int) ([]Ingredient, bool) {
	ingredients, ok := r.recipes[RecipeKey{RecipeID: recipeID, BatchSizeML: batchSizeML}]
	return ingredients, ok
}
