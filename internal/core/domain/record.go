package domain

import "fmt"

// RecordMetadata is persisted alongside each vector. The chunk text is
// duplicated here so retrieval can return readable evidence without
// re-fetching the source page.
type RecordMetadata struct {
	Source             string `json:"source"`
	Section            string `json:"section"`
	SectionDisplayName string `json:"section_display_name"`
	ListingNumber      string `json:"listing_number,omitempty"`
	ChunkIndex         int    `json:"chunk_index"`
	Text               string `json:"text"`
}

// ChunkRecord is the persisted unit in the vector index.
type ChunkRecord struct {
	ID       string
	Vector   []float32
	Metadata RecordMetadata
}

// ChunkRecordID derives the deterministic index id for a section chunk.
// Chunk indexes are 1-based; re-ingesting the same source yields the same
// ids, which is what makes upserts idempotent overwrites.
func ChunkRecordID(section Section, chunkIndex int) string {
	return fmt.Sprintf("%s-%04d", section.Slug, chunkIndex)
}

// NewChunkRecord assembles the record for one embedded chunk of a section.
func NewChunkRecord(section Section, chunkIndex int, text string, vector []float32) ChunkRecord {
	return ChunkRecord{
		ID:     ChunkRecordID(section, chunkIndex),
		Vector: vector,
		Metadata: RecordMetadata{
			Source:             section.URL,
			Section:            section.Name,
			SectionDisplayName: section.DisplayName,
			ListingNumber:      section.ListingNumber,
			ChunkIndex:         chunkIndex,
			Text:               text,
		},
	}
}

// IngestSummary reports what a completed rebuild run accomplished.
type IngestSummary struct {
	SectionsProcessed int `json:"sections_processed"`
	ChunksUpserted    int `json:"chunks_upserted"`
}
