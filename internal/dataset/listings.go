package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/fetcher"
	"github.com/sells-group/madrid-listings/internal/model"
)

// ListingExts are the listings table formats the loader reads.
var ListingExts = []string{".csv", ".csv.gz", ".tsv", ".xlsx"}

var requiredColumns = []string{"latitude", "longitude", "room_type", "price"}

// ParseListings converts a listings table into Listings. Rows whose
// coordinates or price cannot be parsed are skipped; the count is returned.
func ParseListings(tbl *fetcher.Table) ([]model.Listing, int, error) {
	idx := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		i := tbl.Index(col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, 0, eris.Errorf("listings: missing required columns: %s", strings.Join(missing, ", "))
	}
	idIdx := tbl.Index("id")

	log := zap.L().With(zap.String("component", "dataset.listings"))

	listings := make([]model.Listing, 0, len(tbl.Rows))
	skipped := 0
	for n, row := range tbl.Rows {
		line := n + 2 // 1-based, after the header

		lat, latErr := parseFloat(cell(row, idx["latitude"]))
		lng, lngErr := parseFloat(cell(row, idx["longitude"]))
		price, priceErr := ParsePrice(cell(row, idx["price"]))
		if latErr != nil || lngErr != nil || priceErr != nil {
			skipped++
			log.Warn("skipping unparsable listing",
				zap.Int("row", line),
				zap.NamedError("latitude", latErr),
				zap.NamedError("longitude", lngErr),
				zap.NamedError("price", priceErr),
			)
			continue
		}

		id := cell(row, idIdx)
		if id == "" {
			id = strconv.Itoa(line)
		}
		listings = append(listings, model.NewListing(id, lat, lng, cell(row, idx["room_type"]), price))
	}

	if skipped > 0 {
		log.Warn("skipped listings", zap.Int("skipped", skipped), zap.Int("kept", len(listings)))
	}
	return listings, skipped, nil
}

// ParsePrice accepts plain numbers and currency-formatted strings such as
// "$1,200.00", "75 €" or "1.234,56 €". When both '.' and ',' appear the last
// one is the decimal separator. A lone comma followed by one or two digits is
// a decimal comma ("75,5"); other separators must form thousands groups.
// Anything else is an error.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, eris.Errorf("empty price %q", s)
	}

	normalized, err := normalizeSeparators(cleaned)
	if err != nil {
		return 0, eris.Wrapf(err, "price %q", s)
	}
	return parseFloat(normalized)
}

func normalizeSeparators(s string) (string, error) {
	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')

	switch {
	case dot >= 0 && comma >= 0:
		decimal, group, at := ".", ",", dot
		if comma > dot {
			decimal, group, at = ",", ".", comma
		}
		whole := s[:at]
		if strings.Contains(whole, decimal) || !thousandsGrouped(whole, group) {
			return "", eris.New("malformed digit grouping")
		}
		return strings.ReplaceAll(whole, group, "") + "." + s[at+1:], nil
	case comma >= 0:
		if frac := len(s) - comma - 1; strings.Count(s, ",") == 1 && frac >= 1 && frac <= 2 {
			return s[:comma] + "." + s[comma+1:], nil
		}
		if !thousandsGrouped(s, ",") {
			return "", eris.New("ambiguous comma separator")
		}
		return strings.ReplaceAll(s, ",", ""), nil
	case strings.Count(s, ".") > 1:
		if !thousandsGrouped(s, ".") {
			return "", eris.New("malformed digit grouping")
		}
		return strings.ReplaceAll(s, ".", ""), nil
	}
	return s, nil
}

// thousandsGrouped reports whether sep splits s into a leading group of one
// to three digits followed by groups of exactly three.
func thousandsGrouped(s, sep string) bool {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		if i == 0 {
			p = strings.TrimPrefix(p, "-")
			if len(p) < 1 || len(p) > 3 {
				return false
			}
			continue
		}
		if len(p) != 3 {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
