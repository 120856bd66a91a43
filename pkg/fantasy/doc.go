// Package fantasy provides the public types, configuration, and error
// taxonomy for the FantasyWire API client.
//
// The upstream API uses a hierarchical resource-path dialect where
// semicolon-delimited parameters attach to the preceding path segment
// ("/users;use_login=1/games;game_keys=nfl/leagues"); PathBuilder assembles
// such paths. Responses wrap collections in shape-inconsistent containers;
// UnmarshalCollection normalizes them.
//
// Construct a working client with the fwclient package:
//
//	c, err := fwclient.New(&fantasy.Config{
//		ConsumerKey:    key,
//		ConsumerSecret: secret,
//		SignedRequests: true,
//	})
package fantasy
