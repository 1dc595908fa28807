// Package schema models the profile-v2 document produced by a merge.
//
// Every field of a Profile is an Envelope: classification and display
// metadata, a signature stub, and the payload. Scalar payloads are written
// under "value", keyed collections and access-information blocks under
// "values". Metadata is fixed by NewProfile; merging only touches payloads.
//
//	p := schema.NewProfile()
//	p.FirstName.Value = ptr.String("Jane")
//	p.Usernames.Values["mozilliansorg"] = "jdoe"
package schema
