package aws

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	pkgtypes "github.com/vietdv277/hush/pkg/types"
)

// profileSection matches [profile-name] or [profile profile-name]
var (
	credentialsSectionRe = regexp.MustCompile(`^\[([^\]]+)\]$`)
	configSectionRe      = regexp.MustCompile(`^\[profile\s+([^\]]+)\]$`)
	configDefaultRe      = regexp.MustCompile(`^\[default\]$`)
	regionRe             = regexp.MustCompile(`^\s*region\s*=\s*(.+)$`)
)

// DefaultAWSDir returns ~/.aws
func DefaultAWSDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aws"
	}
	return filepath.Join(home, ".aws")
}

// ListProfiles reads AWS profiles from the credentials and config files in awsDir
func ListProfiles(awsDir string) ([]pkgtypes.AWSProfile, error) {
	profileMap := make(map[string]*pkgtypes.AWSProfile)

	credProfiles, credErr := parseINIFile(filepath.Join(awsDir, "credentials"), false)
	for _, p := range credProfiles {
		p := p
		profileMap[p.Name] = &p
	}

	// Config may add region info or new profiles (SSO profiles, etc.)
	configProfiles, configErr := parseINIFile(filepath.Join(awsDir, "config"), true)
	for _, p := range configProfiles {
		if existing, ok := profileMap[p.Name]; ok {
			if existing.Region == "" {
				existing.Region = p.Region
			}
			continue
		}
		p := p
		profileMap[p.Name] = &p
	}

	if credErr != nil && configErr != nil {
		return nil, configErr
	}

	profiles := make([]pkgtypes.AWSProfile, 0, len(profileMap))
	for _, p := range profileMap {
		profiles = append(profiles, *p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		// Put "default" first, then sort alphabetically
		if profiles[i].Name == "default" {
			return true
		}
		if profiles[j].Name == "default" {
			return false
		}
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// FindProfile returns the named profile from awsDir
func FindProfile(awsDir, name string) (*pkgtypes.AWSProfile, bool) {
	profiles, err := ListProfiles(awsDir)
	if err != nil {
		return nil, false
	}

	for _, p := range profiles {
		if p.Name == name {
			return &p, true
		}
	}
	return nil, false
}

// parseINIFile parses an AWS INI-style config file
func parseINIFile(path string, isConfigFile bool) ([]pkgtypes.AWSProfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var profiles []pkgtypes.AWSProfile
	var current *pkgtypes.AWSProfile

	startSection := func(name string) {
		if current != nil {
			profiles = append(profiles, *current)
		}
		current = &pkgtypes.AWSProfile{Name: strings.TrimSpace(name)}
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if isConfigFile {
			// Config file: [profile name] or [default]
			if configDefaultRe.MatchString(line) {
				startSection("default")
				continue
			}
			if matches := configSectionRe.FindStringSubmatch(line); len(matches) == 2 {
				startSection(matches[1])
				continue
			}
		} else if matches := credentialsSectionRe.FindStringSubmatch(line); len(matches) == 2 {
			startSection(matches[1])
			continue
		}

		if current != nil {
			if matches := regionRe.FindStringSubmatch(line); len(matches) == 2 {
				current.Region = strings.TrimSpace(matches[1])
			}
		}
	}

	if current != nil {
		profiles = append(profiles, *current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// ProfileExists reports whether name is configured in awsDir
func ProfileExists(awsDir, name string) bool {
	_, ok := FindProfile(awsDir, name)
	return ok
}
