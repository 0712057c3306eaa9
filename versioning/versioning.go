package versioning

// Set with --ldflags "-X github.com/dogechain-lab/elasticdb/versioning.Version=..."
// at build time. Version follows https://semver.org/
var (
	Version   string // the release version
	Commit    string // the git commit the binary was built from
	BuildTime string // the timestamp of the build
)

const shortCommitLength = 8

// ShortCommit returns the abbreviated build commit
func ShortCommit() string {
	if len(Commit) > shortCommitLength {
		return Commit[:shortCommitLength]
	}

	return Commit
}
