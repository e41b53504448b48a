/*
Package recipesdk provides a client SDK for the Recipebox API.

# Overview

Client wraps every endpoint of the service. Public endpoints work without a
token; everything else needs a bearer token, which Login stores on the client:

	client := recipesdk.NewClient("http://localhost:8000")

	if _, err := client.Login(ctx, "dana@example.com", "secret123"); err != nil {
		log.Fatal(err)
	}

	me, err := client.Me(ctx)

A token obtained elsewhere can be installed with SetToken.

# Recipes

Recipes are created from a multipart form. The image is optional:

	rec, err := client.AddRecipe(ctx, recipesdk.NewRecipe{
		Title:       "שקשוקה",
		Ingredients: "ביצים, עגבניות",
		IsPublic:    true,
		Difficulty:  recipesdk.DifficultyEasy,
		PrepTime:    "20 דקות",
	}, nil, "")

Random order is a seeded shuffle. Pass the seed of the first page back to
page through the same order:

	first, err := client.Sorted(ctx, recipesdk.SortRandom, 1, 0)
	second, err := client.Sorted(ctx, recipesdk.SortRandom, 2, first.Seed)

# Chat

Conversation keeps the history of an AI chat and sends all of it on every
turn:

	conv := recipesdk.NewConversation(client)
	reply, err := conv.Send(ctx, "בא לי משהו עם עוף")
	if conv.Done() {
		fmt.Println("recipe ready:", conv.Title())
	}

# Error Handling

Every non-2xx response becomes an *APIError carrying the status code and the
server's detail message:

	_, err := client.Get(ctx, 42)
	if recipesdk.IsStatus(err, http.StatusNotFound) {
		// ...
	}

# Thread Safety

Client is safe for concurrent use. Conversation is not.
*/
package recipesdk
