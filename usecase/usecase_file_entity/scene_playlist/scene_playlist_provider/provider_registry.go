package scene_playlist_provider

import (
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
)

// Registry 播放列表来源注册表。按注册顺序保存能力描述，
// 后缀命中时逐个尝试打开，先注册者优先。
type Registry struct {
	mu        sync.RWMutex
	sources   []scene_playlist_interface.PlaylistSource
	disabled  map[string]bool
	overrides map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		disabled:  make(map[string]bool),
		overrides: make(map[string][]string),
	}
}

// NewDefaultRegistry 缺省来源集：嵌入式CUE优先于章节表，
// 共有后缀（mp4族）上嵌入CUE先行尝试
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewDefaultEmbeddedCueSource())
	r.Register(NewChapterSource())
	r.Register(NewM3USource())
	return r
}

func (r *Registry) Register(source scene_playlist_interface.PlaylistSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

// Disable 按名称停用来源（保留注册项，分发时跳过）
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled[name] = true
}

func (r *Registry) Enable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disabled, name)
}

// OverrideSuffixes 覆盖来源声明的后缀集合，空切片恢复来源自身声明
func (r *Registry) OverrideSuffixes(name string, suffixes []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(suffixes) == 0 {
		delete(r.overrides, name)
		return
	}
	normalized := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		suffix = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(suffix)), ".")
		if suffix != "" {
			normalized = append(normalized, suffix)
		}
	}
	r.overrides[name] = normalized
}

func (r *Registry) suffixesOf(source scene_playlist_interface.PlaylistSource) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if override, ok := r.overrides[source.Name()]; ok {
		return override
	}
	return source.Suffixes()
}

func (r *Registry) Sources() []scene_playlist_interface.PlaylistSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]scene_playlist_interface.PlaylistSource, 0, len(r.sources))
	for _, s := range r.sources {
		if !r.disabled[s.Name()] {
			sources = append(sources, s)
		}
	}
	return sources
}

// SourcesForSuffix 返回声明了该后缀的启用来源，保持注册顺序
func (r *Registry) SourcesForSuffix(suffix string) []scene_playlist_interface.PlaylistSource {
	suffix = strings.ToLower(suffix)

	var matched []scene_playlist_interface.PlaylistSource
	for _, s := range r.Sources() {
		for _, known := range r.suffixesOf(s) {
			if known == suffix {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched
}

// SupportedSuffixes 全部启用来源的后缀并集（去重排序）
func (r *Registry) SupportedSuffixes() []string {
	seen := make(map[string]bool)
	for _, s := range r.Sources() {
		for _, suffix := range r.suffixesOf(s) {
			seen[suffix] = true
		}
	}

	suffixes := make([]string, 0, len(seen))
	for suffix := range seen {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// OpenPath 依次尝试后缀匹配的来源，返回第一个成功打开的Provider及其来源名。
// 所有来源都不适用时返回(nil, "", nil)，调用方视作"此处没有播放列表"。
func (r *Registry) OpenPath(path string) (scene_playlist_interface.PlaylistProvider, string, error) {
	suffix := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	for _, source := range r.SourcesForSuffix(suffix) {
		provider, err := source.Open(path)
		if err != nil {
			// 来源级失败不终止分发，继续尝试下一来源
			log.Printf("[registry] %s来源打开失败 path=%s err=%v", source.Name(), path, err)
			continue
		}
		if provider != nil {
			return provider, source.Name(), nil
		}
	}
	return nil, "", nil
}

// memoryProvider 预先物化的音轨序列上的读取器
type memoryProvider struct {
	tracks []*scene_playlist_models.TrackRecordMetadata
	pos    int
}

func newMemoryProvider(tracks []*scene_playlist_models.TrackRecordMetadata) *memoryProvider {
	return &memoryProvider{tracks: tracks}
}

func (p *memoryProvider) ReadTrack() (*scene_playlist_models.TrackRecordMetadata, error) {
	if p.pos >= len(p.tracks) {
		return nil, scene_playlist_interface.ErrPlaylistEnd
	}
	t := p.tracks[p.pos]
	p.pos++
	return t, nil
}

func (p *memoryProvider) Close() error {
	p.tracks = nil
	return nil
}
