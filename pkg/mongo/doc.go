// Package mongo connects to the MongoDB deployment backing the page style
// store. Connect retries until the server answers a ping; Healthcheck wraps
// the same ping for readiness checks.
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//	styles := store.NewMongo(client.Database("templatestyles"), "page_styles")
package mongo
