package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// mountStandardPaths bind-mounts the handful of paths every builder
// needs regardless of its declared inputs. Grounded on
// original_source/src/building/mod.rs's mount_standard_paths, which
// mounts /dev/null unconditionally so builders can redirect to it
// without the sandbox otherwise exposing /dev.
func mountStandardPaths(buildDir string) error {
	return mountPath("/dev/null", buildDir)
}

// mountPath bind-mounts the host path src into buildDir at the same
// path, recreating the intermediate directory structure first. src must
// be absolute; a file target gets an empty regular file as its mount
// point, a directory target gets a directory, matching
// original_source/src/sandbox/mod.rs's prepare_mount_path.
func mountPath(src string, buildDir string) error {
	if !filepath.IsAbs(src) {
		return fmt.Errorf("mount path %q is not absolute", src)
	}

	dst := filepath.Join(buildDir, src)

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if info.IsDir() {
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return fmt.Errorf("creating mount point %s: %w", dst, err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("creating mount point parent %s: %w", filepath.Dir(dst), err)
		}
		f, err := os.OpenFile(dst, os.O_CREATE, 0o644)
		if err != nil {
			return fmt.Errorf("creating mount point %s: %w", dst, err)
		}
		f.Close()
	}

	if err := unix.Mount(src, dst, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("bind mounting %s onto %s: %w", src, dst, err)
	}

	return nil
}

// pivotRoot makes buildDir the process's new filesystem root, moving the
// old root aside into a uniquely-named directory and then detaching it.
// Grounded on original_source/src/sandbox/mod.rs's mount_rootfs/
// pivot_root: bind-mount buildDir onto itself so it is a mount point in
// its own right, make the mount namespace's root propagation private so
// none of this leaks to the host, then chdir/pivot_root/chroot into it.
func pivotRoot(buildDir string) error {
	if err := unix.Mount(buildDir, buildDir, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("self bind mounting %s: %w", buildDir, err)
	}

	if err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("making mount namespace private: %w", err)
	}

	oldRootName := strings.ReplaceAll(uuid.New().String(), "-", "")
	oldRoot := filepath.Join(buildDir, oldRootName)
	if err := os.Mkdir(oldRoot, 0o700); err != nil {
		return fmt.Errorf("creating old root directory: %w", err)
	}

	if err := unix.Chdir(buildDir); err != nil {
		return fmt.Errorf("chdir into build dir: %w", err)
	}

	if err := unix.PivotRoot(".", oldRootName); err != nil {
		return fmt.Errorf("pivot_root: %w", err)
	}

	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot: %w", err)
	}

	oldRootAbs := "/" + oldRootName
	if err := unix.Unmount(oldRootAbs, unix.MNT_DETACH); err != nil {
		return fmt.Errorf("detaching old root: %w", err)
	}

	if err := os.RemoveAll(oldRootAbs); err != nil {
		return fmt.Errorf("removing old root: %w", err)
	}

	return nil
}
