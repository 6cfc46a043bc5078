package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	Accent   = lipgloss.Color("#0EA5E9") // Sky
	Positive = lipgloss.Color("#22C55E") // Green
	Muted    = lipgloss.Color("#6B7280") // Gray
	Warning  = lipgloss.Color("#F59E0B") // Amber
	Error    = lipgloss.Color("#EF4444") // Red
	Info     = lipgloss.Color("#A78BFA") // Violet
	White    = lipgloss.Color("#FFFFFF")
	Black    = lipgloss.Color("#000000")

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Positive).
		Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Entity tree
	NodeRoot = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	NodeEntity = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Accent).
			Foreground(Black).
			Bold(true)

	// Missing placeholders and everything under them
	NodeMissing = lipgloss.NewStyle().
			Foreground(Error).
			Italic(true)

	// Subtrees whose root shares its name with another node
	NodeDuplicate = lipgloss.NewStyle().
			Foreground(Warning)

	NodeComponents = lipgloss.NewStyle().
			Foreground(Info)

	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▾ "
	TreeCollapsed = "▸ "
	TreeLeaf      = "  "

	// Conflict summary above the tree
	Banner = lipgloss.NewStyle().
		Background(Warning).
		Foreground(Black).
		Bold(true).
		Padding(0, 1)

	InputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Positive).
			Padding(0, 1)

	// Footer help
	HelpKey = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Status line
	Success = lipgloss.NewStyle().
		Foreground(Positive).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
