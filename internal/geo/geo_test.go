package geo

import (
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestEveryCountryHasContiguousSecIDs(t *testing.T) {
	all := Countries()
	require.Len(t, all, 8)

	for _, c := range all {
		t.Run(c.Code, func(t *testing.T) {
			require.NotEmpty(t, c.Regions)

			seen := make(map[string]struct{}, len(c.Regions))
			first, err := strconv.Atoi(c.Regions[0].SecID)
			require.NoError(t, err)

			for i, r := range c.Regions {
				require.NotEmpty(t, r.Name, "region at index %d", i)
				_, dup := seen[r.SecID]
				require.False(t, dup, "duplicate secid %s", r.SecID)
				seen[r.SecID] = struct{}{}

				require.Equal(t, strconv.Itoa(first+i), r.SecID, "missing secid at index %d", i)
			}
		})
	}
}

func TestAndorraStartsAtTwo(t *testing.T) {
	ad := Regions("AD")
	require.Len(t, ad, 7)
	require.Equal(t, "2", ad[0].SecID)
	require.Equal(t, "8", ad[len(ad)-1].SecID)
}

func TestLookup(t *testing.T) {
	de, ok := Lookup(" de ")
	require.True(t, ok)
	require.Equal(t, "Germany", de.Name)
	require.Len(t, de.Regions, 16)

	byID, ok := ByID(de.ID)
	require.True(t, ok)
	require.Equal(t, de.Code, byID.Code)

	r, ok := de.Region("3")
	require.True(t, ok)
	require.Equal(t, "Berlin", r.Name)

	_, ok = Lookup("XX")
	require.False(t, ok)
	require.Nil(t, Regions("XX"))
	_, ok = ByID(999)
	require.False(t, ok)
}

func TestTablesAreReadOnly(t *testing.T) {
	se := Regions("SE")
	se[0].Name = "mutated"

	again := Regions("SE")
	require.Equal(t, "Stockholm", again[0].Name)
}

func TestSVGDrawsOneRegionPerEntry(t *testing.T) {
	is, ok := Lookup("IS")
	require.True(t, ok)

	out, err := is.SVG()
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	paths := doc.Find("path." + RegionClass)
	require.Equal(t, len(is.Regions), paths.Length())

	id, _ := paths.First().Attr("id")
	require.Equal(t, "province-1", id)
	require.Equal(t, "Capital Region", paths.First().Find("title").Text())
	require.Equal(t, "IS", doc.Find("svg").AttrOr("data-country", ""))
}
