// Package backup inspects the directory an external job copies database
// backups into. It never writes to that directory.
package backup
