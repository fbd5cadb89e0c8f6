// Package prodex embeds the product retrieval engine in a Go program.
//
// The client owns the whole pipeline: catalog source, document store with
// optional snapshot persistence, ingestion and hybrid ranking.
//
//	client, _ := prodex.New(ctx,
//	    prodex.WithCatalogFile("./data/catalog.yaml"),
//	    prodex.WithBolt("./data/prodex.bolt"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Retrieve(ctx, prodex.Survey{
//	    SkinType: "oily",
//	    Concerns: []string{"acne"},
//	}, prodex.Options{Limit: 5})
//	fmt.Println(prodex.Chat(&resp))
//
// Without a database option the store lives in memory only.
package prodex
