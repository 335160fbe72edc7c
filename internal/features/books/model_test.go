package books

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPriceRoundTrip(t *testing.T) {
	for _, price := range []float64{29.9, 0.01, 100, 19.99, 1234.56} {
		d, err := PriceToDecimal(price)
		require.NoError(t, err)

		book := Book{Price: d}
		require.Equal(t, price, book.Response().Price, "price %v must round-trip exactly", price)
	}
}

func TestResponsesEmpty(t *testing.T) {
	out := Responses(nil)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestSearchFilterText(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := searchFilter(owner, "dune")

	require.Equal(t, owner, filter["user"])
	or := filter["$or"].([]bson.M)
	require.Len(t, or, 3)

	pattern := or[0]["title"].(primitive.Regex)
	require.Equal(t, "dune", pattern.Pattern)
	require.Equal(t, "i", pattern.Options)
}

func TestSearchFilterNumericAddsPrice(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := searchFilter(owner, "29.9")

	or := filter["$or"].([]bson.M)
	require.Len(t, or, 4)

	want, err := primitive.ParseDecimal128("29.9")
	require.NoError(t, err)
	require.Equal(t, want, or[3]["price"])
}

func TestSearchFilterEscapesRegexMeta(t *testing.T) {
	owner := primitive.NewObjectID()
	filter := searchFilter(owner, "c++ (2nd ed.)")

	or := filter["$or"].([]bson.M)
	pattern := or[0]["title"].(primitive.Regex)
	require.Equal(t, `c\+\+ \(2nd ed\.\)`, pattern.Pattern)
}
