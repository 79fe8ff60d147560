package scene

// Scene titles.
const (
	TitleTopSales = "Top-Selling Games of All Time"
	TitleTrends   = "Genre Trends Over Time"
	TitleRegions  = "Regional Preferences"
	TitleExplorer = "Explore All Games"
)

// Narratives are markdown.
const (
	NarrativeTopSales = `The ten best-selling titles sold more copies than most
publishers' entire catalogues. **Wii Sports** leads by a wide margin, helped by
being bundled with the console.`

	NarrativeTrends = `Sales per genre rose through the 2000s and peaked around
**2008**. *Action* and *Sports* grew fastest, while most genres declined once
digital distribution took over.`

	NarrativeRegions = `Regional taste differs. North America buys the most of
almost every genre, but **Japan** is the only market where *Role-Playing*
games lead.`

	NarrativeExplorer = `Pick a genre to see every game in it, plotted by
release year and global sales. Hover a point for details.`
)
