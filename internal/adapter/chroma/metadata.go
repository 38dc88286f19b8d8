package chroma

import (
	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"

	"legalrag/internal/domain"
)

// Metadata keys as stored in the collection.
const (
	keySource    = "source"
	keyType      = "type"
	keyChunkType = "chunk_type"
	keyLawNumber = "law_number"
	keyTitle     = "title"
	keyURL       = "url"
)

// toDocumentMetadata maps the typed metadata to chroma attributes, omitting
// empty fields.
func toDocumentMetadata(m domain.Metadata) chroma.DocumentMetadata {
	var attrs []*chroma.MetaAttribute
	add := func(key, value string) {
		if value != "" {
			attrs = append(attrs, chroma.NewStringAttribute(key, value))
		}
	}
	add(keySource, m.Source)
	add(keyType, m.Type)
	add(keyChunkType, m.ChunkType)
	add(keyLawNumber, m.LawNumber)
	add(keyTitle, m.Title)
	add(keyURL, m.URL)
	return chroma.NewDocumentMetadata(attrs...)
}

// fromDocumentMetadata reads back the known keys; anything else stored in the
// collection is ignored.
func fromDocumentMetadata(md chroma.DocumentMetadata) domain.Metadata {
	if md == nil {
		return domain.Metadata{}
	}
	get := func(key string) string {
		v, ok := md.GetString(key)
		if !ok {
			return ""
		}
		return v
	}
	return domain.Metadata{
		Source:    get(keySource),
		Type:      get(keyType),
		ChunkType: get(keyChunkType),
		LawNumber: get(keyLawNumber),
		Title:     get(keyTitle),
		URL:       get(keyURL),
	}
}
