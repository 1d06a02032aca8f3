package cli

import (
	"strings"

	"github.com/tcnksm/go-latest"
)

const releasesURL = "https://github.com/lyb-ai/dev-toolkit/releases"

// latestSource is the release feed checked by 'version --check'.
var latestSource latest.Source = &latest.GithubTag{
	Owner:      "lyb-ai",
	Repository: "dev-toolkit",
}

// checkLatest reports whether a newer release exists. Failures are only logged.
func (a *App) checkLatest() {
	current := strings.TrimPrefix(a.version, "v")
	if current == "dev" || current == "" {
		a.output.Warning("Development build: skipping update check")
		return
	}

	res, err := latest.Check(latestSource, current)
	if err != nil {
		a.output.Warning("Update check failed: %v", err)
		return
	}

	if res.Outdated {
		a.output.Info("A new version is available: %s (you have %s)", res.Current, current)
		a.output.Info("Download it from %s", releasesURL)
		return
	}
	a.output.Success("You are using the latest version: %s", current)
}
