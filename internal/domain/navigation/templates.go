package navigation

import "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"

// Role-category markers, in selection priority order.
const (
	MarkerSuperuser    = auth.Wildcard
	MarkerCommander    = "commander.dashboard.view"
	MarkerTargeting    = "targeting.view"
	MarkerIntelligence = "intel.dashboard.view"
	MarkerIM           = "im.dashboard.view"
	MarkerAnalyst      = "cop.view"
)

func commandGroup() Group {
	return Group{Title: "Command", Items: []Item{
		{Label: "Dashboard", Route: "/", Icon: IconDashboard},
		{Label: "COP Summary", Route: "/cop", Icon: IconMap, Permission: "cop.view"},
		{Label: "Commander's Brief", Route: "/commander", Icon: IconStar, Permission: MarkerCommander},
	}}
}

func targetingGroup() Group {
	return Group{Title: "Targeting", Items: []Item{
		{Label: "Targeting Board", Route: "/targeting", Icon: IconCrosshair, Permission: MarkerTargeting},
		{Label: "Target Nominations", Route: "/targeting/nominations", Icon: IconList, Permission: "targeting.nominate"},
		{Label: "BDA Workbench", Route: "/bda", Icon: IconTarget, Permission: "bda.view"},
	}}
}

func intelligenceGroup() Group {
	return Group{Title: "Intelligence", Items: []Item{
		{Label: "Intel Dashboard", Route: "/intel", Icon: IconDashboard, Permission: MarkerIntelligence},
		{Label: "RFI Tracker", Route: "/rfi", Icon: IconInbox, Permission: "rfi.view"},
		{Label: "COG Analyzer", Route: "/cog", Icon: IconNetwork, Permission: "cog.view"},
		{Label: "Collection Plan", Route: "/collection", Icon: IconRadar, Permission: "intel.collection.view"},
	}}
}

func informationManagementGroup() Group {
	return Group{Title: "Information Management", Items: []Item{
		{Label: "IM Dashboard", Route: "/im", Icon: IconDashboard, Permission: MarkerIM},
		{Label: "Battle Rhythm", Route: "/im/battle-rhythm", Icon: IconCalendar, Permission: "battle_rhythm.view"},
		{Label: "Terms of Reference", Route: "/im/tor", Icon: IconFile, Permission: "tor.manage"},
	}}
}

func referenceGroup() Group {
	return Group{Title: "Reference", Items: []Item{
		{Label: "Ontology", Route: "/ontology", Icon: IconDatabase, Permission: "ontology.view"},
		{Label: "Ontology Editor", Route: "/ontology/edit", Icon: IconDatabase, Permission: "ontology.manage"},
	}}
}

func administrationGroup() Group {
	return Group{Title: "Administration", Items: []Item{
		{Label: "Users", Route: "/admin/users", Icon: IconUsers, Permission: "admin.users.manage"},
		{Label: "Roles", Route: "/admin/roles", Icon: IconShield, Permission: "admin.roles.manage"},
		{Label: "Audit Log", Route: "/admin/audit", Icon: IconClipboard, Permission: "audit.view"},
	}}
}

func accountGroup() Group {
	return Group{Title: "Account", Items: []Item{
		{Label: "Profile", Route: "/profile", Icon: IconUser},
	}}
}

// DefaultTemplates returns freshly built templates in selection priority order.
func DefaultTemplates() []Template {
	return []Template{
		{Name: "superuser", Marker: MarkerSuperuser, Groups: []Group{
			commandGroup(), targetingGroup(), intelligenceGroup(),
			informationManagementGroup(), referenceGroup(), administrationGroup(), accountGroup(),
		}},
		{Name: "commander", Marker: MarkerCommander, Groups: []Group{
			commandGroup(), targetingGroup(), intelligenceGroup(), accountGroup(),
		}},
		{Name: "targeting", Marker: MarkerTargeting, Groups: []Group{
			commandGroup(), targetingGroup(), accountGroup(),
		}},
		{Name: "intelligence", Marker: MarkerIntelligence, Groups: []Group{
			commandGroup(), intelligenceGroup(), accountGroup(),
		}},
		{Name: "im", Marker: MarkerIM, Groups: []Group{
			informationManagementGroup(), referenceGroup(), accountGroup(),
		}},
		{Name: "analyst", Marker: MarkerAnalyst, Groups: []Group{
			{Title: "Situational Awareness", Items: []Item{
				{Label: "Dashboard", Route: "/", Icon: IconDashboard},
				{Label: "COP Summary", Route: "/cop", Icon: IconMap, Permission: "cop.view"},
				{Label: "RFI Tracker", Route: "/rfi", Icon: IconInbox, Permission: "rfi.view"},
			}},
			{Title: "Analysis", Items: []Item{
				{Label: "COG Analyzer", Route: "/cog", Icon: IconNetwork, Permission: "cog.view"},
			}},
			accountGroup(),
		}},
	}
}
