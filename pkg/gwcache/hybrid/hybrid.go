package hybrid

import (
	"encoding/base64"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/pkg/cachekey"
)

const defaultShards = 10

// defaultItemCapacityPerShard is the item-count assumption used to derive
// S3-FIFO queue sizing when the caller does not have a better estimate of
// average object size. It only shapes the small/main split; the hard
// admission limit remains byte-based.
const defaultItemCapacityPerShard = 4096

// Config configures a hybrid cache instance.
type Config struct {
	MaxMemory int64  // total memory tier cap, bytes
	MaxDisk   int64  // total disk tier cap, bytes (0 = memory-only)
	DiskPath  string // root directory for the disk tier
	Shards    int    // number of shards (default 10)
}

// Cache is a sharded, S3-FIFO-evicted memory tier fronting an optional
// on-disk tier. Disk I/O failures degrade gracefully: a read failure is a
// miss, a write failure leaves the entry memory-only.
type Cache struct {
	shards   []*shard
	diskPath string
	maxDisk  int64

	diskMu      sync.Mutex
	diskBytes   int64
	diskOrder   []cachekey.Key         // FIFO order of on-disk keys for disk-tier eviction
	diskPresent map[cachekey.Key]int64 // key -> size on disk

	inserts atomic.Int64
}

// New builds a hybrid cache from cfg. If DiskPath is set but MaxDisk is 0,
// the cache degrades to memory-only with a warning, per spec.
func New(cfg Config) *Cache {
	shards := cfg.Shards
	if shards <= 0 {
		shards = defaultShards
	}

	maxDisk := cfg.MaxDisk
	if cfg.DiskPath != "" && maxDisk == 0 {
		logger.Warn("hybrid cache: disk_path configured with max_disk=0, degrading to memory-only")
	}
	if maxDisk > 0 && cfg.DiskPath != "" {
		if err := os.MkdirAll(cfg.DiskPath, 0o755); err != nil {
			logger.Warn("hybrid cache: failed to create disk_path, degrading to memory-only", logger.Err(err))
			maxDisk = 0
		}
	}

	perShardBytes := cfg.MaxMemory / int64(shards)
	ss := make([]*shard, shards)
	for i := range ss {
		ss[i] = newShard(perShardBytes, defaultItemCapacityPerShard)
	}

	return &Cache{
		shards:      ss,
		diskPath:    cfg.DiskPath,
		maxDisk:     maxDisk,
		diskPresent: make(map[cachekey.Key]int64),
	}
}

func (c *Cache) shardFor(key cachekey.Key) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Bucket))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(key.Path))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get checks the memory tier first, then the disk tier. A disk hit is
// re-warmed into memory.
func (c *Cache) Get(key cachekey.Key) (cachekey.Entry, bool) {
	sh := c.shardFor(key)
	if e, ok := sh.get(key); ok {
		return e, true
	}

	if c.maxDisk == 0 {
		return cachekey.Entry{}, false
	}

	bytes, contentType, ok := c.readDisk(key)
	if !ok {
		return cachekey.Entry{}, false
	}
	entry := cachekey.Entry{Bytes: bytes, ContentType: contentType}
	sh.put(key, entry)
	return entry, true
}

// Put admits key to both tiers eagerly, subject to each tier's cap.
func (c *Cache) Put(key cachekey.Key, bytes []byte, contentType string) {
	c.inserts.Add(1)
	sh := c.shardFor(key)
	sh.put(key, cachekey.Entry{Bytes: bytes, ContentType: contentType})

	if c.maxDisk > 0 {
		c.writeDisk(key, bytes, contentType)
	}
}

func (c *Cache) Stats() cachekey.Stats {
	var entries, bytes, evictions int64
	for _, sh := range c.shards {
		e, b, _, ev := sh.stats()
		entries += int64(e)
		bytes += b
		evictions += ev
	}
	return cachekey.Stats{
		Inserts:   c.inserts.Load(),
		Entries:   entries,
		Bytes:     bytes,
		Evictions: evictions,
	}
}

// diskFileName maps a key to a flat, filesystem-safe file name.
func diskFileName(key cachekey.Key) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key.Bucket)) + "_" +
		base64.RawURLEncoding.EncodeToString([]byte(key.Path))
}

func (c *Cache) readDisk(key cachekey.Key) ([]byte, string, bool) {
	path := filepath.Join(c.diskPath, diskFileName(key))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("hybrid cache: disk read failed, treating as miss",
				logger.Bucket(key.Bucket), logger.Path(key.Path), logger.Err(err))
		}
		return nil, "", false
	}
	ctPath := path + ".ct"
	contentType, _ := os.ReadFile(ctPath)
	return data, string(contentType), true
}

func (c *Cache) writeDisk(key cachekey.Key, bytes []byte, contentType string) {
	size := int64(len(bytes))
	if size > c.maxDisk {
		return
	}

	c.diskMu.Lock()
	if oldSize, exists := c.diskPresent[key]; exists {
		c.diskBytes -= oldSize
	} else {
		c.diskOrder = append(c.diskOrder, key)
	}
	c.diskPresent[key] = size
	c.diskBytes += size

	var evicted []cachekey.Key
	for c.diskBytes > c.maxDisk && len(c.diskOrder) > 0 {
		victim := c.diskOrder[0]
		c.diskOrder = c.diskOrder[1:]
		if victim == key {
			// don't evict the entry we're inserting; it keeps its FIFO slot
			c.diskOrder = append(c.diskOrder, key)
			continue
		}
		if vs, ok := c.diskPresent[victim]; ok {
			c.diskBytes -= vs
			delete(c.diskPresent, victim)
			evicted = append(evicted, victim)
		}
	}
	c.diskMu.Unlock()

	for _, v := range evicted {
		_ = os.Remove(filepath.Join(c.diskPath, diskFileName(v)))
		_ = os.Remove(filepath.Join(c.diskPath, diskFileName(v)+".ct"))
	}

	path := filepath.Join(c.diskPath, diskFileName(key))
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		logger.Warn("hybrid cache: disk write failed, entry remains memory-only",
			logger.Bucket(key.Bucket), logger.Path(key.Path), logger.Err(err))
		c.diskMu.Lock()
		c.diskBytes -= size
		delete(c.diskPresent, key)
		for i, k := range c.diskOrder {
			if k == key {
				c.diskOrder = append(c.diskOrder[:i], c.diskOrder[i+1:]...)
				break
			}
		}
		c.diskMu.Unlock()
		return
	}
	if contentType != "" {
		_ = os.WriteFile(path+".ct", []byte(contentType), 0o644)
	}
}
