// Package typeahead embeds the search-as-you-type pipeline in a Go program.
//
// Nodes are indexed into an Elasticsearch-compatible backend together with a
// tokenized completion field and weighted suggestion entries. Suggest answers a
// keystroke from a cached, term-independent request template of the context node.
//
//	client, _ := typeahead.New(ctx,
//	    typeahead.WithElasticsearch("http://localhost:9200"),
//	    typeahead.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	_, _ = client.Index(ctx, typeahead.Node{
//	    Identifier: "a1b2",
//	    Path:       "/sites/acme/products",
//	    SiteName:   "acme",
//	    NodeType:   "Acme:Page",
//	    Properties: map[string]any{"title": "Products"},
//	    Dimensions: typeahead.Dimensions{"language": {"en"}},
//	})
//	res, _ := client.Suggest(ctx, "prod", "a1b2", typeahead.Dimensions{"language": {"en"}})
//
// Without WithRedis, nodes and templates are kept in process memory.
package typeahead
