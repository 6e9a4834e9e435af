// Package researcher embeds the research pipeline in a Go program.
//
// The client answers a question by generating web search queries, searching,
// reflecting on coverage and synthesizing an answer with dense citation ids:
//
//	client, _ := researcher.New(ctx,
//	    researcher.WithRedis("localhost:6379", ""),
//	    researcher.WithOpenAI(os.Getenv("OPENAI_API_KEY"), ""),
//	    researcher.WithCustomSearch(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GOOGLE_CSE_ID")),
//	)
//	defer client.Close()
//
//	ans, _ := client.Ask(ctx, "Who discovered gravity?")
//	fmt.Println(ans.Answer)
//	for _, c := range ans.Citations {
//	    fmt.Printf("[%d] %s %s\n", c.ID, c.Title, c.URL)
//	}
//
// Without WithRedis (or with WithoutCache) answers are not cached.
package researcher
