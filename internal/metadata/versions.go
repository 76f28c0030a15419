package metadata

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/dop251/goja"
)

//go:embed tables
var tables embed.FS

type versionBucket struct {
	name   string
	ranges []string
}

// Checked in order, the first bucket with a matching range wins.
var versionMapping = []versionBucket{
	{name: "0.27.*", ranges: []string{"0.27.*"}},
	{name: "0.26.*", ranges: []string{"0.26.*"}},
	{name: "0.25.*", ranges: []string{"0.25.*"}},
	{name: "0.22.*", ranges: []string{"0.22.*", "0.23.*", "0.24.*"}},
	{name: "0.21.*", ranges: []string{"0.21.*"}},
}

// SupportedRanges lists every library version range with embedded tables.
func SupportedRanges() []string {
	var ranges []string
	for _, bucket := range versionMapping {
		ranges = append(ranges, bucket.ranges...)
	}
	return ranges
}

// matchBucket returns the name of the first bucket whose ranges include version.
func matchBucket(version string) (string, error) {
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return "", &UnsupportedVersionError{Version: version, Ranges: SupportedRanges()}
	}

	for _, bucket := range versionMapping {
		for _, versionRange := range bucket.ranges {
			constraint, err := semver.NewConstraint(versionRange)
			if err != nil {
				return "", fmt.Errorf("invalid version range %s: %w", versionRange, err)
			}
			if constraint.Check(parsed) {
				return bucket.name, nil
			}
		}
	}

	return "", &UnsupportedVersionError{Version: version, Ranges: SupportedRanges()}
}

func bucketDir(bucket string) string {
	return path.Join("tables", strings.ReplaceAll(bucket, "*", "_x_"))
}

func loadBucket(bucket string) ([]FeatureDescriptor, []LanguageDescriptor, error) {
	dir := bucketDir(bucket)

	featuresExports, err := evalTable(path.Join(dir, "features.js"))
	if err != nil {
		return nil, nil, err
	}
	featureItems, ok := exportedArray(featuresExports, "featuresArr")
	if !ok {
		return nil, nil, fmt.Errorf("%s/features.js does not export featuresArr", dir)
	}
	features, err := toFeatures(featureItems)
	if err != nil {
		return nil, nil, fmt.Errorf("%s/features.js: %w", dir, err)
	}

	languagesExports, err := evalTable(path.Join(dir, "languages.js"))
	if err != nil {
		return nil, nil, err
	}
	languageItems, ok := exportedArray(languagesExports, "languagesArr")
	if !ok {
		return nil, nil, fmt.Errorf("%s/languages.js does not export languagesArr", dir)
	}
	languages, err := toLanguages(languageItems)
	if err != nil {
		return nil, nil, fmt.Errorf("%s/languages.js: %w", dir, err)
	}

	return features, languages, nil
}

func evalTable(filename string) (*goja.Object, error) {
	buf, err := tables.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("no embedded table %s: %w", filename, err)
	}
	return evalCommonJS(filename, string(buf))
}
