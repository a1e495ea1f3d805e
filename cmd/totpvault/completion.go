package main

const bashCompletion = `_totpvault() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="add add-manual list code codes rename remove export import qr watch version help completion"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
        return 0
    fi

    case "${prev}" in
        add)
            COMPREPLY=($(compgen -W "--store --json --help" -- "${cur}"))
            ;;
        add-manual)
            COMPREPLY=($(compgen -W "--issuer --secret --store --json --help" -- "${cur}"))
            ;;
        list|code|codes|rename|remove|watch)
            COMPREPLY=($(compgen -W "--store --json --help" -- "${cur}"))
            ;;
        export)
            COMPREPLY=($(compgen -W "--out --store --json --help" -- "${cur}"))
            ;;
        import)
            COMPREPLY=($(compgen -W "--on-conflict --store --json --help" -- "${cur}"))
            ;;
        qr)
            COMPREPLY=($(compgen -W "--out --size --store --help" -- "${cur}"))
            ;;
        --on-conflict)
            COMPREPLY=($(compgen -W "replace skip abort" -- "${cur}"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            ;;
    esac
    return 0
}
complete -F _totpvault totpvault
`

const zshCompletion = `#compdef totpvault

_totpvault() {
    local -a commands
    commands=(
        'add:Enroll an account from an otpauth:// URI'
        'add-manual:Enroll an account from a hand-typed secret'
        'list:List enrolled accounts'
        'code:Print the current code for one account'
        'codes:Print current codes for all accounts'
        'rename:Change an account'\''s issuer and name'
        'remove:Delete an account'
        'export:Write all accounts to a portable document'
        'import:Merge accounts from an exported document'
        'qr:Render an account'\''s enrollment QR code as PNG'
        'watch:Live code view, refreshed every second'
        'version:Show version'
        'help:Show help'
        'completion:Output shell completion script'
    )

    _arguments -C \
        '1:command:->command' \
        '*::arg:->args'

    case "$state" in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                add-manual)
                    _arguments \
                        '--issuer[Issuer label]:issuer:' \
                        '--secret[Secret value]:secret:' \
                        '--store[Account file]:file:_files' \
                        '--json[Output as JSON]'
                    ;;
                import)
                    _arguments \
                        '--on-conflict[Conflict policy]:policy:(replace skip abort)' \
                        '--store[Account file]:file:_files' \
                        '--json[Output as JSON]' \
                        '1:file:_files'
                    ;;
                qr)
                    _arguments \
                        '--out[Output file]:file:_files' \
                        '--size[Image side length]:pixels:' \
                        '--store[Account file]:file:_files'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
                *)
                    _arguments \
                        '--store[Account file]:file:_files' \
                        '--json[Output as JSON]'
                    ;;
            esac
            ;;
    esac
}

_totpvault
`

const fishCompletion = `complete -c totpvault -f

complete -c totpvault -n '__fish_use_subcommand' -a add -d 'Enroll an account from an otpauth:// URI'
complete -c totpvault -n '__fish_use_subcommand' -a add-manual -d 'Enroll an account from a hand-typed secret'
complete -c totpvault -n '__fish_use_subcommand' -a list -d 'List enrolled accounts'
complete -c totpvault -n '__fish_use_subcommand' -a code -d 'Print the current code for one account'
complete -c totpvault -n '__fish_use_subcommand' -a codes -d 'Print current codes for all accounts'
complete -c totpvault -n '__fish_use_subcommand' -a rename -d 'Change an account issuer and name'
complete -c totpvault -n '__fish_use_subcommand' -a remove -d 'Delete an account'
complete -c totpvault -n '__fish_use_subcommand' -a export -d 'Write all accounts to a portable document'
complete -c totpvault -n '__fish_use_subcommand' -a import -d 'Merge accounts from an exported document'
complete -c totpvault -n '__fish_use_subcommand' -a qr -d 'Render an enrollment QR code as PNG'
complete -c totpvault -n '__fish_use_subcommand' -a watch -d 'Live code view'
complete -c totpvault -n '__fish_use_subcommand' -a version -d 'Show version'
complete -c totpvault -n '__fish_use_subcommand' -a help -d 'Show help'
complete -c totpvault -n '__fish_use_subcommand' -a completion -d 'Output shell completion script'

complete -c totpvault -l store -d 'Account file' -r
complete -c totpvault -l json -d 'Output as JSON'
complete -c totpvault -n '__fish_seen_subcommand_from add-manual' -l issuer -d 'Issuer label' -r
complete -c totpvault -n '__fish_seen_subcommand_from add-manual' -l secret -d 'Secret value' -r
complete -c totpvault -n '__fish_seen_subcommand_from export qr' -l out -d 'Output file' -r
complete -c totpvault -n '__fish_seen_subcommand_from qr' -l size -d 'Image side length' -r
complete -c totpvault -n '__fish_seen_subcommand_from import' -l on-conflict -d 'Conflict policy' -ra 'replace skip abort'
complete -c totpvault -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`
