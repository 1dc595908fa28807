package mapper

import (
	"context"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/identity"
	"github.com/agentstation/profilemerge/pkg/logging"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/sources"
	"github.com/agentstation/profilemerge/pkg/types"
)

// Mozillians returns the stage applying a community profile. A nil record
// is a no-op. Directory values are kept; the community username always
// replaces the stored handle.
func (m *Mapper) Mozillians(rec *sources.MozilliansRecord) Stage {
	return func(ctx context.Context, p *schema.Profile) error {
		if rec == nil {
			return nil
		}
		return m.mapMozillians(ctx, p, rec)
	}
}

func (m *Mapper) mapMozillians(ctx context.Context, p *schema.Profile, rec *sources.MozilliansRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	const src = types.MozilliansID
	username := rec.Username.Value
	dinoparkID := identity.DeriveID(username)
	logging.FromContext(ctx).Debug().Str("username", username).Msg("mozillian")

	fillString(ctx, src, "first_name", &p.FirstName, rec.FirstName)
	fillString(ctx, src, "last_name", &p.LastName, rec.LastName)
	fillString(ctx, src, "identities.dinopark_id", &p.Identities.DinoparkID, &dinoparkID)
	fillString(ctx, src, "user_id", &p.UserID, rec.UserID)
	fillString(ctx, src, "fun_title", &p.FunTitle, rec.FunTitle)
	setBool(ctx, src, "active", &p.Active, true)
	fillString(ctx, src, "description", &p.Description, rec.Description)
	fillString(ctx, src, "timezone", &p.Timezone, rec.Timezone)

	p.AccessInformation.Mozilliansorg.Value = rec.AccessInformation

	setValues(ctx, src, "tags", &p.Tags, tagValues(rec.Tags, rec.Skills))
	setValues(ctx, src, "languages", &p.Languages, tagValues(rec.PreferredLanguage))
	if rec.URIs != nil {
		setValues(ctx, src, "uris", &p.URIs, uriValues(rec.URIs))
	}

	if p.Picture.Value == nil {
		// the rendition is named after the profile's id, which the
		// directory may already have set
		setString(ctx, src, "picture", &p.Picture, m.communityPicture(ctx, rec.Picture, ptr.Value(p.Identities.DinoparkID.Value)))
	}

	if p.PrimaryEmail.Value == nil {
		email, err := rec.PrimaryIDPEmail()
		if err != nil {
			return err
		}
		setString(ctx, src, "primary_email", &p.PrimaryEmail, email)
	}

	setUsername(ctx, src, p, username)
	return nil
}

// tagValues merges string lists into a keyed collection with null values.
func tagValues(lists ...sources.Strings) schema.Values {
	out := schema.Values{}
	for _, list := range lists {
		for _, tag := range list {
			out[tag] = nil
		}
	}
	return out
}

// uriValues prefixes every key and drops empty values.
func uriValues(uris sources.StringMap) schema.Values {
	out := make(schema.Values, len(uris))
	for k, v := range uris {
		if v != "" {
			out[constants.URIKeyPrefix+k] = v
		}
	}
	return out
}

// communityPicture fetches the community picture URL. Only the avatar
// output directory needs to be configured.
func (m *Mapper) communityPicture(ctx context.Context, picture sources.Text, dinoparkID string) *string {
	if m.avatars == nil || !picture.Valid {
		return nil
	}
	name := avatarName(dinoparkID)
	return m.picture(ctx, types.MozilliansID, name, func() error {
		return m.avatars.FromURL(ctx, picture.Value, name)
	})
}
