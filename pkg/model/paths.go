package model

import (
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
)

const (
	// descriptor files (object metadata)
	projectDescriptorFile = "project.yaml"
	branchDescriptorFile  = "branch.yaml"
	headDescriptorFile    = "head.yaml"
	runDescriptorFile     = "run.yaml"
	runCardFile           = "card.md"

	versionFileSuffix = ".yaml"
	versionsDir       = "versions"
)

func getArchivePathToProjects() string {
	return "projects/"
}

// GetArchivePathPrefixToProjects yields the key prefix listing all projects
func GetArchivePathPrefixToProjects() string {
	return getArchivePathToProjects()
}

// GetArchivePathToProject yields the key of a project descriptor
func GetArchivePathToProject(project string) string {
	return fmt.Sprint(getArchivePathToProjects(), project, "/", projectDescriptorFile)
}

func getArchivePathToBranches() string {
	return "branches/"
}

// GetArchivePathPrefixToBranches yields the key prefix listing the branches of a project
func GetArchivePathPrefixToBranches(project string) string {
	return fmt.Sprint(getArchivePathToBranches(), project, "/")
}

// GetArchivePathToBranch yields the key of a branch descriptor
func GetArchivePathToBranch(project, branch string) string {
	return fmt.Sprint(GetArchivePathPrefixToBranches(project), branch, "/", branchDescriptorFile)
}

func getArchivePathToAssets() string {
	return "assets/"
}

// GetArchivePathPrefixToAssets yields the key prefix listing all asset
// versions under a branch
func GetArchivePathPrefixToAssets(project, branch string) string {
	return fmt.Sprint(getArchivePathToAssets(), project, "/", branch, "/")
}

// GetArchivePathPrefixToVersions yields the key prefix listing the
// versions of one asset
func GetArchivePathPrefixToVersions(project, branch string, kind Kind, name string) string {
	return fmt.Sprint(GetArchivePathPrefixToAssets(project, branch), kind, "/", name, "/", versionsDir, "/")
}

// GetArchivePathToVersion yields the key of an asset version descriptor
func GetArchivePathToVersion(project, branch string, kind Kind, name, versionID string) string {
	return fmt.Sprint(GetArchivePathPrefixToVersions(project, branch, kind, name), versionID, versionFileSuffix)
}

func getArchivePathToHeads() string {
	return "heads/"
}

// GetArchivePathPrefixToHeads yields the key prefix listing the asset
// heads under a branch
func GetArchivePathPrefixToHeads(project, branch string) string {
	return fmt.Sprint(getArchivePathToHeads(), project, "/", branch, "/")
}

// GetArchivePathToHead yields the key of an asset head pointer
func GetArchivePathToHead(project, branch string, kind Kind, name string) string {
	return fmt.Sprint(GetArchivePathPrefixToHeads(project, branch), kind, "/", name, "/", headDescriptorFile)
}

func getArchivePathToPayloads() string {
	return "payloads/"
}

// GetArchivePathPrefixToPayloads yields the key prefix listing the payload
// blobs of a project
func GetArchivePathPrefixToPayloads(project string) string {
	return fmt.Sprint(getArchivePathToPayloads(), project, "/")
}

// GetArchivePathToPayload yields the key of a content addressed payload blob
func GetArchivePathToPayload(project, digest string) string {
	return fmt.Sprint(GetArchivePathPrefixToPayloads(project), digest)
}

func getArchivePathToRuns() string {
	return "runs/"
}

// GetArchivePathPrefixToRuns yields the key prefix listing run records,
// for the whole project or scoped to one flow
func GetArchivePathPrefixToRuns(project, flow string) string {
	if flow == "" {
		return fmt.Sprint(getArchivePathToRuns(), project, "/")
	}
	return fmt.Sprint(getArchivePathToRuns(), project, "/", flow, "/")
}

// GetArchivePathToRun yields the key of a run descriptor
func GetArchivePathToRun(project, flow, runID string) string {
	return fmt.Sprint(GetArchivePathPrefixToRuns(project, flow), runID, "/", runDescriptorFile)
}

// GetArchivePathToRunCard yields the key of the Markdown card of a run
func GetArchivePathToRunCard(project, flow, runID string) string {
	return fmt.Sprint(GetArchivePathPrefixToRuns(project, flow), runID, "/", runCardFile)
}

// ArchivePathComponents defines the unique path parts to retrieve an
// object in a registry store
type ArchivePathComponents struct {
	Project         string
	Branch          string
	Kind            Kind
	Name            string
	VersionID       string
	Digest          string
	Flow            string
	RunID           string
	IsRunCard       bool
	ArchiveFileName string
}

// GetArchivePathComponents yields all metadata components from a parsed archive path.
func GetArchivePathComponents(archivePath string) (ArchivePathComponents, error) {
	const (
		maxPos     = 7
		projectPos = 2 // as in: projects/{project}/project.yaml
		branchPos  = 3 // as in: branches/{project}/{branch}/branch.yaml
		versionPos = 6 // as in: assets/{project}/{branch}/{kind}/{name}/versions/{version-id}.yaml
		headPos    = 5 // as in: heads/{project}/{branch}/{kind}/{name}/head.yaml
		payloadPos = 2 // as in: payloads/{project}/{digest}
		runPos     = 4 // as in: runs/{project}/{flow}/{run-id}/run.yaml
	)
	cs := strings.SplitN(archivePath, "/", maxPos)
	switch cs[0] { // we always have at least 1 element

	case "projects":
		if len(cs) < projectPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to project to have %d parts: %s", projectPos+1, archivePath)
		}
		if cs[projectPos] != projectDescriptorFile {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, last element in the path should be %q. components: %v, path: %s",
					projectDescriptorFile, cs, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[projectPos],
			Project:         cs[projectPos-1],
		}, nil

	case "branches":
		if len(cs) < branchPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to branch to have %d parts: %s", branchPos+1, archivePath)
		}
		if cs[branchPos] != branchDescriptorFile {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, last element in the path should be %q. components: %v, path: %s",
					branchDescriptorFile, cs, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[branchPos],
			Branch:          cs[branchPos-1],
			Project:         cs[branchPos-2],
		}, nil

	case "assets":
		if len(cs) < versionPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to asset version to have %d parts: %s", versionPos+1, archivePath)
		}
		kind, err := ParseKind(cs[versionPos-3])
		if err != nil {
			return ArchivePathComponents{}, fmt.Errorf("path is invalid: %v, path: %s", err, archivePath)
		}
		if cs[versionPos-1] != versionsDir {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, element before last should be %q. components: %v, path: %s",
					versionsDir, cs, archivePath)
		}
		versionID := strings.TrimSuffix(cs[versionPos], versionFileSuffix)
		if versionID == cs[versionPos] || versionID == "" {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, last element in the path should be \"{version-id}%s\". components: %v, path: %s",
					versionFileSuffix, cs, archivePath)
		}
		if _, err := ksuid.Parse(versionID); err != nil {
			return ArchivePathComponents{},
				fmt.Errorf("expected {version-id} %q to be a ksuid: %s", versionID, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[versionPos],
			VersionID:       versionID,
			Name:            cs[versionPos-2],
			Kind:            kind,
			Branch:          cs[versionPos-4],
			Project:         cs[versionPos-5],
		}, nil

	case "heads":
		if len(cs) < headPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to head to have %d parts: %s", headPos+1, archivePath)
		}
		kind, err := ParseKind(cs[headPos-2])
		if err != nil {
			return ArchivePathComponents{}, fmt.Errorf("path is invalid: %v, path: %s", err, archivePath)
		}
		if cs[headPos] != headDescriptorFile {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, last element in the path should be %q. components: %v, path: %s",
					headDescriptorFile, cs, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[headPos],
			Name:            cs[headPos-1],
			Kind:            kind,
			Branch:          cs[headPos-3],
			Project:         cs[headPos-4],
		}, nil

	case "payloads":
		if len(cs) < payloadPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to payload to have %d parts: %s", payloadPos+1, archivePath)
		}
		if _, err := ParseDigest(cs[payloadPos]); err != nil {
			return ArchivePathComponents{},
				fmt.Errorf("expected {digest} to be a hex hash value: %v, path: %s", err, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[payloadPos],
			Digest:          cs[payloadPos],
			Project:         cs[payloadPos-1],
		}, nil

	case "runs":
		if len(cs) < runPos+1 {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid: expect path to run to have %d parts: %s", runPos+1, archivePath)
		}
		if cs[runPos] != runDescriptorFile && cs[runPos] != runCardFile {
			return ArchivePathComponents{},
				fmt.Errorf("path is invalid, last element in the path should be either %q or %q. components: %v, path: %s",
					runDescriptorFile, runCardFile, cs, archivePath)
		}
		runID := cs[runPos-1]
		if _, err := ksuid.Parse(runID); err != nil {
			return ArchivePathComponents{},
				fmt.Errorf("expected {run-id} %q to be a ksuid: %s", runID, archivePath)
		}
		return ArchivePathComponents{
			ArchiveFileName: cs[runPos],
			IsRunCard:       cs[runPos] == runCardFile,
			RunID:           runID,
			Flow:            cs[runPos-2],
			Project:         cs[runPos-3],
		}, nil

	default:
		return ArchivePathComponents{}, fmt.Errorf("path is invalid: %v, path: %s", cs, archivePath)
	}
}
