// Package lexsearch is a Go client for the legal document search backend.
//
// It speaks the backend's HTTP/JSON API, normalizes every search response
// shape into one, and wraps batch classification, storage browsing,
// document and redaction operations, the metadata catalog and saved cases.
//
//	client, _ := lexsearch.New(ctx, "https://search.example.com",
//	    lexsearch.WithIdentity("https://auth.example.com", anonKey),
//	)
//	defer client.Close()
//	_, _ = client.Auth().SignIn(ctx, "clerk@example.com", password)
//
//	res, _ := client.Search().Query(ctx, lexsearch.SearchParams{
//	    Query: "suppress evidence",
//	    Size:  lexsearch.Int(10),
//	})
//	for _, hit := range res.Hits {
//	    fmt.Println(hit.Title, lexsearch.FormatParties(hit.Metadata.Parties))
//	}
//
// A batch job can be started and followed until it settles:
//
//	started, _ := client.Batch().Start(ctx, []lexsearch.Source{{ID: "doc-1"}}, nil)
//	job, _ := client.Batch().Poll(ctx, started.JobID, lexsearch.PollOptions{})
package lexsearch
