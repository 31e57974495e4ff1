package gann

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	deep "github.com/patrikeh/go-deep"
)

// scores are stored in file names as fixed point
const scoreDigits = 1e6

// SaveNet writes nn into dir under a name that records its score.
func SaveNet(dirname string, nn *deep.Neural, score float64) (string, error) {
	blob, err := nn.Marshal()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d.%d.dat", int64(score*scoreDigits), time.Now().UnixNano())
	path := filepath.Join(dirname, name)
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, blob, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// NetsFromDir loads up to count networks from dir, best score first. A
// missing directory yields no networks.
func NetsFromDir(dirname string, count int) ([]*deep.Neural, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid network count %d", count)
	}
	f, err := os.Open(dirname)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	names, err := f.Readdirnames(-1)
	f.Close()
	if err != nil {
		return nil, err
	}
	var scores []fileScore
	for _, name := range names {
		if !strings.HasSuffix(name, ".dat") {
			continue
		}
		score, err := strconv.ParseInt(strings.Split(name, ".")[0], 10, 64)
		if err != nil {
			continue
		}
		scores = append(scores, fileScore{name, float64(score) / scoreDigits})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if len(scores) > count {
		scores = scores[:count]
	}
	if len(scores) == 0 {
		return nil, nil
	}
	var ret []*deep.Neural
	for _, score := range scores {
		blob, err := ioutil.ReadFile(filepath.Join(dirname, score.name))
		if err != nil {
			return nil, err
		}
		nn, err := deep.Unmarshal(blob)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", score.name, err)
		}
		ret = append(ret, nn)
	}
	log.Printf("loaded %d nets with scores %s - %s", len(scores), fmtNum(scores[0].score), fmtNum(scores[len(scores)-1].score))
	return ret, nil
}

type fileScore struct {
	name  string
	score float64
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
