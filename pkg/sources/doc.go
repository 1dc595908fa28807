// Package sources loads the three exports merged by profilemerge into typed
// records.
//
// Loaders filter at load time: HRIS entries must be active and carry a work
// email, directory entries must use an organization email domain, community
// entries must carry a user id. A record whose content does not match its
// typed shape is still returned, so it takes part in joining, and reports
// the problem from Validate.
//
//	loader := sources.NewLoader(afero.NewOsFs())
//	data, err := loader.LoadAll(sources.Paths{HRIS: "hris.json", LDAP: "ldap.json"})
package sources
