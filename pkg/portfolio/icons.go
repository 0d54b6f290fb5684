package portfolio

import "strings"

// DefaultIcon is shown for categories and tools without a mapping.
const DefaultIcon = "⚙️"

var categoryIcons = map[string]string{
	"SIEM Platforms":          "🛡️",
	"EDR/Endpoint Security":   "🔒",
	"Email Security":          "📧",
	"VAPT":                    "🔍",
	"Security Operations":     "⚡",
	"Programming & Scripting": "💻",
	"Cloud & Infrastructure":  "☁️",

	"Vulnerability Assessment & Penetration Testing": "🔍",
}

// CategoryIcon returns the icon of a skill category. Spacing around
// slashes is ignored so "EDR / Endpoint Security" matches.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	if icon, ok := categoryIcons[strings.ReplaceAll(name, " / ", "/")]; ok {
		return icon
	}
	return DefaultIcon
}

// Badge is the icon and gradient of a tool.
type Badge struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var defaultBadge = Badge{Icon: DefaultIcon, Color: "from-gray-600 to-gray-700"}

var toolBadges = map[string]Badge{
	"Azure Sentinel":     {"☁️", "from-blue-400 to-blue-600"},
	"Microsoft Sentinel": {"☁️", "from-blue-400 to-blue-600"},
	"Elastic SIEM":       {"🔍", "from-yellow-400 to-pink-500"},
	"Wazuh":              {"🛡️", "from-blue-500 to-cyan-400"},
	"Splunk":             {"📊", "from-green-400 to-teal-500"},
	"CrowdStrike":        {"🦅", "from-red-500 to-red-600"},
	"Microsoft Defender": {"🛡️", "from-blue-500 to-cyan-500"},
	"SentinelOne":        {"🤖", "from-purple-500 to-pink-500"},
	"Mimecast":           {"✉️", "from-orange-400 to-red-500"},
	"Proofpoint":         {"📨", "from-blue-500 to-indigo-500"},
	"Python":             {"🐍", "from-blue-400 to-yellow-400"},
	"PowerShell":         {"⚡", "from-blue-500 to-blue-700"},
	"Bash":               {"💻", "from-green-400 to-green-600"},
	"KQL":                {"📝", "from-cyan-400 to-blue-500"},
	"SQL":                {"🗄️", "from-orange-400 to-red-500"},
	"Azure":              {"☁️", "from-blue-400 to-blue-600"},
	"AWS":                {"☁️", "from-orange-400 to-yellow-500"},
	"Docker":             {"🐳", "from-blue-400 to-cyan-500"},
	"Nessus":             {"🔍", "from-red-400 to-orange-500"},
	"Qualys":             {"🔐", "from-red-500 to-red-600"},
	"Burp Suite":         {"🕷️", "from-orange-500 to-red-500"},
	"Wireshark":          {"🦈", "from-blue-400 to-teal-500"},
	"MITRE ATT&CK":       {"🎯", "from-red-500 to-purple-500"},
}

// ToolBadge returns the badge of a tool, or a grey gear.
func ToolBadge(name string) Badge {
	if b, ok := toolBadges[name]; ok {
		return b
	}
	return defaultBadge
}
