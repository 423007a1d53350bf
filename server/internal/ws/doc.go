// Package ws implements the live snippet feed for snippr-server.
//
// New(store, pingPeriod) creates a Hub and subscribes it to the store's
// create events. Hub.Run(ctx) broadcasts queued events until ctx is
// cancelled, then closes all connections. Hub.ServeHTTP upgrades a request
// to WebSocket, sends the current snippet list and streams every snippet
// created afterwards.
//
// Messages:
//
//	{"event": "snapshot", "data": [ {snippet}, ... ]}
//	{"event": "created",  "data": {snippet}}
//
// The feed is mounted at /ws/snippets by the server.
package ws
