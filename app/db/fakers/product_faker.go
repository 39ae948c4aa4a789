package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

const (
	minPrice = 99
	maxPrice = 1999
)

// ProductFaker builds a catalogue-looking line item with a whole-rupee price.
func ProductFaker() models.CartLineItem {
	name := titleCase(faker.Word() + " " + faker.Word())

	return models.CartLineItem{
		ProductID: uuid.NewString(),
		Name:      name,
		Image:     "/images/products/" + slug.Make(name) + ".jpg",
		UnitPrice: decimal.NewFromInt(int64(minPrice + rand.Intn(maxPrice-minPrice+1))),
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
