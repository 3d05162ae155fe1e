package ingestion

import (
	"context"

	"github.com/poiesic/stylematch/core"
)

// EmbedCatalog embeds the description of every item with the pipeline's
// default batch size and concurrency. It returns copies of the items with
// Embedding and DescriptionHash set; items is not modified.
func (p *Pipeline) EmbedCatalog(ctx context.Context, items []core.CatalogItem) ([]core.CatalogItem, error) {
	corpus := make([]string, len(items))
	for i := range items {
		corpus[i] = items[i].Description
	}

	vectors, err := p.EmbedCorpus(ctx, corpus, p.batchSize, p.concurrency)
	if err != nil {
		return nil, err
	}

	out := make([]core.CatalogItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].Embedding = vectors[i]
		out[i].DescriptionHash = core.IDFromContent(items[i].Description)
	}
	return out, nil
}
