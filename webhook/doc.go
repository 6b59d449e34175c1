// Package webhook receives MessengerPeople webhook deliveries.
//
// # Features
//
//   - Allowlist of the platform's webhook source addresses, refreshed from the health endpoint
//   - HTTP middleware rejecting requests from other addresses with 403
//   - Exempt paths and optional X-Forwarded-For handling behind trusted proxies
//   - Handler decoding the body into an Event with dates as time.Time
//
// # Quick Start
//
//	client, err := mpclient.New(ctx, auth.ClientCredentials{ClientID: id, ClientSecret: secret})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	allowlist := webhook.NewAllowlist(health.New(client))
//	go allowlist.Run(ctx, time.Hour)
//
//	mux := http.NewServeMux()
//	mux.Handle("/webhook", webhook.Handler(func(w http.ResponseWriter, r *http.Request) {
//	    event := webhook.MustEventFromContext(r.Context())
//	    log.Printf("%s wrote %v", event.Sender, event.Payload)
//	    w.WriteHeader(http.StatusNoContent)
//	}))
//
//	log.Fatal(http.ListenAndServe(":8080", webhook.Middleware(allowlist)(mux)))
package webhook
