package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	cp "github.com/otiai10/copy"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// containerTmp is where dump files are staged inside the db container.
const containerTmp = "/tmp"

// ImportDatabaseDump loads a SQL file into the stack's PostgreSQL database.
//
// The steps are: start the stack, copy the file into the db container,
// run it through psql, delete the copy. Every step runs even if an earlier
// one failed; the failures are reported together afterwards.
func (o *Orchestrator) ImportDatabaseDump(ctx context.Context, sqlFile string) error {
	db := o.cfg.ContainerName(model.ServiceDB)
	hostFile := o.hostPath(sqlFile)
	staged := path.Join(containerTmp, filepath.Base(hostFile))

	o.log.Info("importing database dump", "file", hostFile, "container", db)

	return o.runSequence(ctx, "database import did not complete cleanly",
		o.console(o.composeCmd("up", "-d")),
		o.console(o.dockerCmd("cp", hostFile, db+":"+containerTmp)),
		o.interactive(o.dockerCmd(o.execArgs(db,
			"psql", "-U", o.cfg.DatabaseUser, o.cfg.DatabaseName, "-f", staged)...)),
		o.interactive(o.dockerCmd(o.execArgs(db, "rm", staged)...)),
	)
}

// DumpDatabase writes a pg_dump of the stack's database to sqlFile.
//
// A file already at that path is first copied to <sqlFile>.bak, replacing
// any previous backup. The dump itself streams straight into the file.
func (o *Orchestrator) DumpDatabase(ctx context.Context, sqlFile string) (err error) {
	target := o.hostPath(sqlFile)
	db := o.cfg.ContainerName(model.ServiceDB)
	cmd := o.dockerCmd("exec", "-t", db,
		"pg_dump", "-U", o.cfg.DatabaseUser, "-O", "-x", o.cfg.DatabaseName)
	cmd.Stderr = o.stderr
	cmd.NoCapture = true

	if o.dryRun {
		if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
			o.log.Info("would back up existing dump", "backup", target+".bak")
		}
		o.log.Info("would write dump", "file", target)
		cmd.Stdout = io.Discard
		return o.runOne(ctx, "database dump failed", cmd)
	}

	backup, err := backupFile(target)
	if err != nil {
		return model.NewEnvironmentError(fmt.Sprintf("failed to back up %s", target), err)
	}
	if backup != "" {
		o.log.Info("backed up existing dump", "backup", backup)
	}

	f, err := os.Create(target)
	if err != nil {
		return model.NewEnvironmentError(fmt.Sprintf("failed to create %s", target), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = model.NewEnvironmentError(fmt.Sprintf("failed to write %s", target), cerr)
		}
	}()

	cmd.Stdout = f

	o.log.Info("dumping database", "container", db, "file", target)
	return o.runOne(ctx, "database dump failed", cmd)
}

// backupFile copies target to target+".bak" when target exists and
// returns the backup path, or "" when there was nothing to back up.
func backupFile(target string) (string, error) {
	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", target)
	}

	backup := target + ".bak"
	if err := cp.Copy(target, backup); err != nil {
		return "", err
	}
	return backup, nil
}
