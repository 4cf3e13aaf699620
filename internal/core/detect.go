package core

// detect.go infers, from column headers alone, which commerce platform
// produced an uploaded file and which headers carry the SKU, name and
// quantity fields.
//
// Detection is a pure function of the header row and the uploaded file name.
// It never inspects row content, so the same header set always yields the
// same DetectedFormat regardless of data.

import "strings"

// DetectionThreshold is the minimum signature confidence for an exact
// platform mapping to be trusted. Below it detection falls back to generic
// keyword-based column mapping.
const DetectionThreshold = 0.7

const (
	// exactHeaderScore is the confidence contributed by each canonical
	// header found in the row.
	exactHeaderScore = 0.3

	// indicatorBonus is the flat confidence added per indicator substring
	// found anywhere in the header row.
	indicatorBonus = 0.1

	// genericConfidence is the fixed confidence of the keyword fallback.
	genericConfidence = 0.6

	// fileNameChannelBonus is added when the file name implies a channel.
	// The sum may exceed 1.0; callers treat confidence as a relative score.
	fileNameChannelBonus = 0.2
)

// AnalyzeHeaders scores the header row against every registered platform
// signature and returns the detected format.
//
// If the best signature reaches DetectionThreshold its exact mapping is used
// verbatim. Otherwise the result is a generic format: columns are resolved by
// keyword matching and the channel is guessed from the file name, defaulting
// to Amazon.
func AnalyzeHeaders(headers []string, fileName string) DetectedFormat {
	var (
		best      PlatformSignature
		bestScore float64
		bestMap   ColumnMapping
	)

	for _, sig := range Signatures() {
		score, mapping := scoreSignature(sig, headers)
		if score > bestScore {
			best = sig
			bestScore = score
			bestMap = mapping
		}
	}

	if bestScore >= DetectionThreshold {
		return DetectedFormat{
			Platform:   best.Platform,
			Channel:    best.Channel,
			Confidence: bestScore,
			Mapping:    bestMap,
		}
	}

	format := DetectedFormat{
		Platform:   PlatformGeneric,
		Channel:    ChannelAmazon,
		Confidence: genericConfidence,
		Mapping:    ResolveColumns(headers),
	}
	if ch, ok := channelFromFileName(fileName); ok {
		format.Channel = ch
		format.Confidence += fileNameChannelBonus
	}
	return format
}

// scoreSignature scores one signature against the header row and returns the
// mapping built from matched headers. A header fills at most one exact-match
// slot; the first match wins per field.
func scoreSignature(sig PlatformSignature, headers []string) (float64, ColumnMapping) {
	var (
		score   float64
		mapping ColumnMapping
	)

	for _, h := range headers {
		clean := CleanCell(h)
		lower := strings.ToLower(clean)

		switch {
		case mapping.SKUColumn == "" && lower == sig.SKUHeader:
			mapping.SKUColumn = clean
			score += exactHeaderScore
		case mapping.NameColumn == "" && lower == sig.NameHeader:
			mapping.NameColumn = clean
			score += exactHeaderScore
		case mapping.QuantityColumn == "" && lower == sig.QuantityHeader:
			mapping.QuantityColumn = clean
			score += exactHeaderScore
		}
	}

	for _, indicator := range sig.Indicators {
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), indicator) {
				score += indicatorBonus
				break
			}
		}
	}

	return score, mapping
}

// channelFromFileName guesses the sales channel from the uploaded file name.
func channelFromFileName(fileName string) (Channel, bool) {
	name := strings.ToLower(fileName)

	switch {
	case strings.Contains(name, "amazon"), strings.Contains(name, "amz"):
		return ChannelAmazon, true
	case strings.Contains(name, "shopify"), strings.Contains(name, "shop"):
		return ChannelShopify, true
	}
	return ChannelAmazon, false
}
