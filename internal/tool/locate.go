package tool

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"k8s.io/klog/v2"
)

var ErrBinaryNotFound = errors.New("binary not found")

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

// Locate finds the binary of id. The directories in dirs are searched in
// order, then $PATH. Empty entries in dirs are ignored.
func Locate(id ID, dirs ...string) (string, error) {
	name := executableName(id.Binary())
	var searched []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		searched = append(searched, dir)
		if isExecutable(candidate) {
			klog.V(1).Infof("Using %s", candidate)
			return candidate, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		searched = append(searched, "$PATH")
		return "", fmt.Errorf("%w: %s (searched %s)", ErrBinaryNotFound, name, strings.Join(searched, ", "))
	}
	klog.V(1).Infof("Using %s from $PATH", path)
	return path, nil
}
