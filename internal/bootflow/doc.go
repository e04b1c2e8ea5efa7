// Package bootflow decides what the pre-boot login screen shows and turns
// the operator's answer into settings for the boot agent.
//
// Flow.Run reads the username setting. A value starting with "iscsi:" is a
// multi-boot descriptor: the last ":" field carries the number of boot
// images, the password setting carries their ";"-terminated labels, and the
// chosen image is written to root-path as a three-digit suffix:
//
//	iscsi:192.168.1.201::3260::iqn.2008-12.com.ccboot.211:2
//	-> root-path iscsi:192.168.1.201::3260::iqn.2008-12.com.ccboot.211:001
//
// Any other value is a computer name. The operator edits it together with
// the IP address, and the pair is written back as "name:ip".
//
// In both cases the password is replaced by a fixed 12-character placeholder,
// since the iSCSI initiator rejects shorter secrets.
package bootflow
