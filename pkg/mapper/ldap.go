package mapper

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
	"github.com/agentstation/profilemerge/pkg/identity"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/sources"
	"github.com/agentstation/profilemerge/pkg/types"
)

// LDAP returns the stage applying a directory record. A record without a
// primary email or with a malformed field fails the stage.
func (m *Mapper) LDAP(rec *sources.LDAPRecord) Stage {
	return func(ctx context.Context, p *schema.Profile) error {
		if rec == nil {
			return nil
		}
		return m.mapLDAP(ctx, p, rec)
	}
}

func (m *Mapper) mapLDAP(ctx context.Context, p *schema.Profile, rec *sources.LDAPRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	const src = types.LDAPID
	email := ptr.Value(rec.PrimaryEmail.Value)
	dinoparkID := identity.DeriveID(email)
	username := identity.Handle(rec.Usernames.Values, email, m.entropy)

	// names only overwrite when the directory has one
	if rec.FirstName.Value != nil {
		setString(ctx, src, "first_name", &p.FirstName, rec.FirstName.Value)
	}
	if rec.LastName.Value != nil {
		setString(ctx, src, "last_name", &p.LastName, rec.LastName.Value)
	}

	setValues(ctx, src, "ssh_public_keys", &p.SSHPublicKeys, maps.Clone(rec.SSHPublicKeys.Values))
	setValues(ctx, src, "pgp_public_keys", &p.PGPPublicKeys, maps.Clone(rec.PGPPublicKeys.Values))
	setValues(ctx, src, "phone_numbers", &p.PhoneNumbers, maps.Clone(rec.PhoneNumbers.Values))

	ids := &p.Identities
	setString(ctx, src, "identities.bugzilla_mozilla_org_id", &ids.BugzillaMozillaOrgID, rec.Identities.BugzillaMozillaOrgID.Value)
	setString(ctx, src, "identities.dinopark_id", &ids.DinoparkID, &dinoparkID)
	setString(ctx, src, "identities.firefox_accounts_id", &ids.FirefoxAccountsID, rec.Identities.FirefoxAccountsID.Value)
	setString(ctx, src, "identities.github_id_v3", &ids.GithubIDV3, rec.Identities.GithubIDV3.Value)
	setString(ctx, src, "identities.github_id_v4", &ids.GithubIDV4, rec.Identities.GithubIDV4.Value)
	setString(ctx, src, "identities.google_oauth2_id", &ids.GoogleOAuth2ID, rec.Identities.GoogleOAuth2ID.Value)
	setString(ctx, src, "identities.mozilla_ldap_id", &ids.MozillaLDAPID, rec.Identities.MozillaLDAPID.Value)
	setString(ctx, src, "identities.mozilla_posix_id", &ids.MozillaPosixID, rec.Identities.MozillaPosixID.Value)
	setString(ctx, src, "identities.mozilliansorg_id", &ids.MozilliansorgID, rec.Identities.MozilliansorgID.Value)

	setValues(ctx, src, "usernames", &p.Usernames, maps.Clone(rec.Usernames.Values))
	setString(ctx, src, "user_id", &p.UserID, rec.UserID.Value)
	setString(ctx, src, "login_method", &p.LoginMethod, rec.LoginMethod.Value)
	setString(ctx, src, "primary_email", &p.PrimaryEmail, rec.PrimaryEmail.Value)
	p.AccessInformation.LDAP.Value = rec.AccessInformation.LDAP.Values
	setString(ctx, src, "fun_title", &p.FunTitle, rec.FunTitle.Value)
	setBool(ctx, src, "active", &p.Active, *rec.Active.Value)
	setString(ctx, src, "description", &p.Description, rec.Description.Value)

	setString(ctx, src, "picture", &p.Picture, m.ldapPicture(ctx, rec.Picture.Value, dinoparkID))

	setUsername(ctx, src, p, username)
	return nil
}

// ldapPicture converts the directory picture, found by base name in the
// avatar input directory. Both avatar directories must be configured.
func (m *Mapper) ldapPicture(ctx context.Context, picture *string, dinoparkID string) *string {
	if m.avatars == nil || m.avatarsIn == "" || picture == nil {
		return nil
	}
	base := filepath.Base(*picture)
	if base == "." || base == string(filepath.Separator) {
		logging.FromContext(ctx).Debug().Str("picture", *picture).Msg("picture has no file name")
		return nil
	}

	name := avatarName(dinoparkID)
	input := filepath.Join(m.avatarsIn, base)
	return m.picture(ctx, types.LDAPID, name, func() error {
		return m.avatars.FromPath(ctx, input, name)
	})
}
