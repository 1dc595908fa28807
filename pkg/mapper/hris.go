package mapper

import (
	"context"
	"regexp"

	"github.com/agentstation/profilemerge/internal/utils/ptr"
	"github.com/agentstation/profilemerge/pkg/constants"
	"github.com/agentstation/profilemerge/pkg/schema"
	"github.com/agentstation/profilemerge/pkg/sources"
	"github.com/agentstation/profilemerge/pkg/types"
)

var (
	mgmtDepartment = regexp.MustCompile(`(Management|Engineering|Development):? Mgmt \d$`)
	mgmtLevel      = regexp.MustCompile(`:? Mgmt \d$`)
	levelSuffix    = regexp.MustCompile(` \d$`)
)

// CensorTitle strips management levels from an HRIS business title.
//
//	"Foo Engineering Mgmt 5" -> "Foo Engineering"
//	"Foo Product Mgmt 5"     -> "Foo Product Management"
//	"Foo Engineer 2"         -> "Foo Engineer"
func CensorTitle(title string) string {
	title = mgmtDepartment.ReplaceAllString(title, "${1}")
	title = mgmtLevel.ReplaceAllString(title, " Management")
	return levelSuffix.ReplaceAllString(title, "")
}

// HRIS returns the stage applying a Workday record. It never fails.
func (m *Mapper) HRIS(rec *sources.HRISRecord) Stage {
	return func(ctx context.Context, p *schema.Profile) error {
		if rec != nil {
			MapHRIS(ctx, p, rec)
		}
		return nil
	}
}

// MapHRIS copies the staff information of rec into p and keeps rec
// verbatim under access_information.hris.
func MapHRIS(ctx context.Context, p *schema.Profile, rec *sources.HRISRecord) {
	const src = types.HRISID
	staff := &p.StaffInformation

	p.AccessInformation.HRIS.Value = rec.Raw
	setString(ctx, src, "staff_information.cost_center", &staff.CostCenter, rec.CostCenter.Ptr())
	setBool(ctx, src, "staff_information.director", &staff.Director, rec.IsDirectorOrAbove.Is(constants.HRISTrue))
	setBool(ctx, src, "staff_information.manager", &staff.Manager, rec.IsManager.Is(constants.HRISTrue))
	setString(ctx, src, "staff_information.office_location", &staff.OfficeLocation, rec.LocationDescription.Ptr())
	setBool(ctx, src, "staff_information.staff", &staff.Staff, rec.EmployeeID.Valid)
	setString(ctx, src, "staff_information.team", &staff.Team, rec.Team.Ptr())

	var title *string
	if rec.BusinessTitle.Valid {
		title = ptr.To(CensorTitle(rec.BusinessTitle.Value))
	}
	setString(ctx, src, "staff_information.title", &staff.Title, title)
	setString(ctx, src, "staff_information.worker_type", &staff.WorkerType, rec.WorkerType.Ptr())
	setString(ctx, src, "staff_information.wpr_desk_number", &staff.WPRDeskNumber, rec.WPRDeskNumber.Ptr())
}
