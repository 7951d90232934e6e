package client

const (
	MediaTypeManifestV2     = "application/vnd.docker.distribution.manifest.v2+json"
	MediaTypeManifestListV2 = "application/vnd.docker.distribution.manifest.list.v2+json"
	MediaTypeOCIManifest    = "application/vnd.oci.image.manifest.v1+json"
	MediaTypeOCIIndex       = "application/vnd.oci.image.index.v1+json"
)

type Manifest struct {
	SchemaVersion int     `json:"schemaVersion"`
	MediaType     string  `json:"mediaType"`
	Config        Layer   `json:"config"`
	Layers        []Layer `json:"layers"`
	// Manifests is set for manifest lists and OCI indexes.
	Manifests []Layer `json:"manifests"`
}

// IsIndex reports whether m is a manifest list or an OCI index.
func (m *Manifest) IsIndex() bool {
	return len(m.Manifests) > 0 || m.MediaType == MediaTypeManifestListV2 || m.MediaType == MediaTypeOCIIndex
}

// Size is the config size plus every layer size. It is zero for an index,
// whose children have to be fetched to be sized.
func (m *Manifest) Size() int64 {
	total := m.Config.Size
	for _, l := range m.Layers {
		total += l.Size
	}
	return total
}

type Layer struct {
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	Digest    string `json:"digest"`
}

type AuthToken struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

type catalog struct {
	Repositories []string `json:"repositories"`
}

type tagList struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}
