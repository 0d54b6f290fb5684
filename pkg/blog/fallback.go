package blog

import (
	"fmt"

	"github.com/folio-site/folio/pkg/render"
)

// FallbackIndex is served when blogs/index.json cannot be loaded.
func FallbackIndex() *Index {
	return &Index{
		Fallback: true,
		Blogs: []Post{
			{
				ID:          "rag-agents-soc-automation",
				Title:       "Building RAG Agents for SOC Automation",
				Description: "A practical guide to implementing Retrieval-Augmented Generation systems for automating threat intelligence gathering and analysis in Security Operations Centers.",
				Date:        "2025-01-10",
				Tags:        []string{"Automation", "SOC", "RAG", "AI", "Threat Intelligence"},
				Filename:    "rag-agents-soc-automation.md",
				ReadTime:    "12 min read",
			},
			{
				ID:          "ioc-sweep-grep-vs-python",
				Title:       "IOC Sweep: GREP vs Python Performance Comparison",
				Description: "Head-to-head comparison of traditional GREP and Python for hunting indicators of compromise across large log datasets. Real-world performance results and practical recommendations.",
				Date:        "2024-12-18",
				Tags:        []string{"Incident Response", "Tools", "Python", "GREP", "Performance"},
				Filename:    "ioc-sweep-grep-vs-python.md",
				ReadTime:    "10 min read",
			},
			{
				ID:          "home-server-infrastructure-setup",
				Title:       "Building a Home Lab: My Personal SOC Infrastructure",
				Description: "Complete guide to building a home security operations lab with Proxmox, monitoring tools, network segmentation, and enterprise-grade security stack on consumer hardware.",
				Date:        "2024-11-05",
				Tags:        []string{"Home Lab", "Infrastructure", "Proxmox", "SIEM", "Networking"},
				Filename:    "home-server-infrastructure-setup.md",
				ReadTime:    "15 min read",
			},
			{
				ID:          "kql-threat-hunting",
				Title:       "KQL for Threat Hunting: Advanced Queries for Security Operations",
				Description: "Practical Kusto Query Language (KQL) techniques for threat hunting in Azure Sentinel and Microsoft security products, with real-world detection queries.",
				Date:        "2024-10-22",
				Tags:        []string{"KQL", "Threat Hunting", "Azure Sentinel", "SIEM", "Detection Engineering"},
				Filename:    "kql-threat-hunting.md",
				ReadTime:    "11 min read",
			},
			{
				ID:          "elastic-rally-benchmarking-guide",
				Title:       "Benchmarking Elasticsearch with Rally: A Practical Guide",
				Description: "Learn how to use Elastic Rally for performance benchmarking and optimization of Elasticsearch clusters. Includes real-world SIEM performance tuning results.",
				Date:        "2024-10-08",
				Tags:        []string{"Elasticsearch", "Performance", "Rally", "Benchmarking", "Optimization"},
				Filename:    "elastic-rally-benchmarking-guide.md",
				ReadTime:    "14 min read",
			},
			{
				ID:          "redkey-usb-data-wiping",
				Title:       "Secure Data Wiping with RedKey Pro: A Security Engineer's Review",
				Description: "Detailed review of the RedKey Pro USB data destroyer for secure drive sanitization. Includes performance tests, compliance considerations, and best practices.",
				Date:        "2024-09-25",
				Tags:        []string{"Data Security", "Hardware", "Compliance", "Data Destruction", "Tools"},
				Filename:    "redkey-usb-data-wiping.md",
				ReadTime:    "13 min read",
			},
			{
				ID:          "multi-client-soc-operations",
				Title:       "Managing Security Operations Across Multiple Client Environments",
				Description: "Strategies for operating as a security analyst in MSSP environments, managing multiple clients simultaneously while maintaining consistent security monitoring.",
				Date:        "2024-09-10",
				Tags:        []string{"SOC", "MSSP", "Operations", "Client Management", "Best Practices"},
				Filename:    "multi-client-soc-operations.md",
				ReadTime:    "10 min read",
			},
		},
	}
}

// Placeholder is the fragment shown in place of a post whose markdown could
// not be fetched.
func Placeholder(filename string) string {
	name := render.EscapeHTML(filename)
	return fmt.Sprintf(`<div class="bg-yellow-900/20 border border-yellow-500/30 rounded-lg p-6 mb-6">
<h3 class="text-yellow-400 font-bold mb-3">Post Unavailable</h3>
<p class="text-gray-300 mb-4">The content of <code class="bg-gray-800 px-2 py-1 rounded text-cyan-400">blogs/%s</code> could not be loaded.</p>
<p class="text-gray-300 mb-4">Serve the site over HTTP (for example with <code class="bg-gray-800 px-2 py-1 rounded text-cyan-400">folio serve</code>) or open the markdown file directly.</p>
</div>`, name)
}
