package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconHighlight = "\U000F0652"
	IconSelected  = "▶"
	IconEdit      = "\uf044"
	IconSaved     = "\uf00c"
)

// Notification icons
var (
	IconInfo    = "\uf05a"
	IconWarning = "\uf071"
	IconError   = "\uf057"
)
