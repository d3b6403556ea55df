// Package truthguard provides a Go client for the TruthGuard
// fact-checking API.
//
// Claims are submitted for verification and processed asynchronously;
// poll the claim status or fetch the full detail to retrieve the
// analysis once processing completes.
//
//	client, _ := truthguard.New("http://localhost:8080",
//	    truthguard.WithToken(os.Getenv("API_TOKEN")),
//	)
//
//	res, _ := client.Claims().Submit(ctx, truthguard.SubmitClaimRequest{
//	    Content:     "Drinking coffee cures the common cold.",
//	    ContentType: "text",
//	})
//
//	detail, _ := client.Claims().Get(ctx, res.ID)
//	if detail.Analysis != nil {
//	    fmt.Println(detail.Analysis.Verdict)
//	}
//
// Knowledge base access goes through the knowledge service:
//
//	matches, _ := client.Knowledge().Search(ctx, "coffee health effects")
package truthguard
