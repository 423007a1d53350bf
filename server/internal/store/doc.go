// Package store holds the in-memory snippet collection for snippr-server.
//
// Store owns every Snippet and the counter used to mint ids. It is created
// once at startup with New (optionally pre-populated with Seed()) and handed
// to the HTTP layer explicitly; there is no package-level state.
//
// Ids are allocated inside the same write-locked section that inserts the
// snippet, so concurrent Create calls never share an id and the counter never
// moves backward. Rejected creates leave the counter untouched.
package store
